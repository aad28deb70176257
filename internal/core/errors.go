package core

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the submitted text is blank
	ErrEmptyInput = errors.New("nothing to analyze")
	// ErrSuperseded is returned to a submission that was replaced by a newer one
	ErrSuperseded = errors.New("analysis superseded by a newer submission")
)

// TransportError reports a network-level failure reaching the detection service
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError reports a non-success response from the detection service
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("detection service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("detection service returned status %d: %s", e.StatusCode, e.Body)
}

// MalformedPayloadError reports a success response that does not match the expected shape
type MalformedPayloadError struct {
	Reason string
	Err    error
}

func (e *MalformedPayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed analysis payload: %s: %v", e.Reason, e.Err)
	}
	return "malformed analysis payload: " + e.Reason
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// User-visible messages for each failure kind
const (
	MessageEmptyInput = "Nothing to analyze. Paste the email content first."
	MessageFailure    = "Failed to analyze email. Is the detection service running?"
)

// UserMessage returns the text a frontend should show for err
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrEmptyInput) {
		return MessageEmptyInput
	}
	return MessageFailure
}

// IsAnalysisFailure reports whether err belongs to the detection failure taxonomy
func IsAnalysisFailure(err error) bool {
	var transportErr *TransportError
	var serviceErr *ServiceError
	var malformedErr *MalformedPayloadError
	return errors.As(err, &transportErr) || errors.As(err, &serviceErr) || errors.As(err, &malformedErr)
}
