package core

import (
	"context"
	"time"
)

// Detector is the remote phishing-detection capability
type Detector interface {
	// Analyze submits email text and returns the raw detection payload.
	// Failures are *TransportError, *ServiceError or *MalformedPayloadError.
	Analyze(ctx context.Context, text string) (*RawAnalysisPayload, error)
}

// Recorder receives analysis outcomes for metrics
type Recorder interface {
	// ObserveAnalysis records one finished analysis
	ObserveAnalysis(outcome string, tier SeverityTier, duration time.Duration)
}

// Analysis outcome labels
const (
	OutcomeSuccess    = "success"
	OutcomeEmptyInput = "empty_input"
	OutcomeTransport  = "transport_error"
	OutcomeService    = "service_error"
	OutcomeMalformed  = "malformed_payload"
	OutcomeCanceled   = "canceled"
)
