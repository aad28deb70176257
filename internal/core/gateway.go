package core

import (
	"context"
	"errors"
	"strings"
)

// Gateway owns the single boundary crossing from user text to the detector
type Gateway struct {
	detector Detector
}

// NewGateway creates a new submission gateway
func NewGateway(detector Detector) *Gateway {
	return &Gateway{detector: detector}
}

// Submit forwards emailText to the detector exactly once and returns the payload unchanged
func (g *Gateway) Submit(ctx context.Context, emailText string) (*RawAnalysisPayload, error) {
	if strings.TrimSpace(emailText) == "" {
		return nil, ErrEmptyInput
	}

	payload, err := g.detector.Analyze(ctx, emailText)
	if err != nil {
		return nil, normalizeDetectorError(err)
	}
	if payload == nil {
		return nil, &MalformedPayloadError{Reason: "detector returned no payload"}
	}

	return payload, nil
}

// normalizeDetectorError keeps taxonomy errors and treats anything else as a transport failure
func normalizeDetectorError(err error) error {
	if IsAnalysisFailure(err) {
		return err
	}
	return &TransportError{Op: "analyze", Err: err}
}

// outcomeFor maps an error to its metrics label
func outcomeFor(err error) string {
	var serviceErr *ServiceError
	var malformedErr *MalformedPayloadError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrEmptyInput):
		return OutcomeEmptyInput
	case errors.Is(err, context.Canceled), errors.Is(err, ErrSuperseded):
		return OutcomeCanceled
	case errors.As(err, &serviceErr):
		return OutcomeService
	case errors.As(err, &malformedErr):
		return OutcomeMalformed
	default:
		return OutcomeTransport
	}
}
