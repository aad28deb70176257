package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wirePayload keeps every field raw so missing and null values can be told apart
type wirePayload struct {
	EmailScore      json.RawMessage `json:"email_score"`
	Phishing        json.RawMessage `json:"phishing"`
	SuspiciousWords json.RawMessage `json:"suspicious_words"`
	FlaggedURLs     json.RawMessage `json:"flagged_urls"`
}

// DecodePayload parses a detection service response body.
// Extra fields are ignored; missing, null or mistyped fields are rejected.
func DecodePayload(data []byte) (*RawAnalysisPayload, error) {
	var wire wirePayload
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &MalformedPayloadError{Reason: "response is not a JSON object", Err: err}
	}

	payload := &RawAnalysisPayload{}

	if err := decodeField(wire.EmailScore, "email_score", &payload.Score); err != nil {
		return nil, err
	}
	if payload.Score < 0 || payload.Score > MaxScore {
		return nil, &MalformedPayloadError{Reason: fmt.Sprintf("email_score %v outside [0, %v]", payload.Score, MaxScore)}
	}
	if err := decodeField(wire.Phishing, "phishing", &payload.IsMalicious); err != nil {
		return nil, err
	}
	if err := decodeField(wire.SuspiciousWords, "suspicious_words", &payload.SuspiciousSignals); err != nil {
		return nil, err
	}
	if err := decodeField(wire.FlaggedURLs, "flagged_urls", &payload.FlaggedURLs); err != nil {
		return nil, err
	}

	return payload, nil
}

func decodeField(raw json.RawMessage, name string, dst interface{}) error {
	if len(raw) == 0 {
		return &MalformedPayloadError{Reason: "missing field " + name}
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return &MalformedPayloadError{Reason: "null field " + name}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &MalformedPayloadError{Reason: "invalid field " + name, Err: err}
	}
	return nil
}
