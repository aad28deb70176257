package core

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AnalysisService submits email text and classifies the result
type AnalysisService struct {
	gateway  *Gateway
	recorder Recorder
	logger   *zap.Logger
}

// NewAnalysisService creates a new analysis service. recorder may be nil.
func NewAnalysisService(detector Detector, recorder Recorder, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		gateway:  NewGateway(detector),
		recorder: recorder,
		logger:   logger,
	}
}

// Analyze runs one analysis and returns the verdict
func (s *AnalysisService) Analyze(ctx context.Context, emailText string) (*Verdict, error) {
	start := time.Now()

	payload, err := s.gateway.Submit(ctx, emailText)
	if err != nil {
		s.observe(outcomeFor(err), "", start)
		if err == ErrEmptyInput {
			s.logger.Debug("Rejected blank submission")
		} else {
			s.logger.Error("Email analysis failed",
				zap.Error(err),
				zap.Int("text_length", len(emailText)),
				zap.String("outcome", outcomeFor(err)))
		}
		return nil, err
	}

	verdict := Classify(*payload)
	s.observe(OutcomeSuccess, verdict.SeverityTier, start)

	s.logger.Info("Email analyzed",
		zap.Float64("score", verdict.Score),
		zap.Bool("is_malicious", verdict.IsMalicious),
		zap.String("tier", string(verdict.SeverityTier)),
		zap.Int("suspicious_signals", len(payload.SuspiciousSignals)),
		zap.Int("flagged_urls", len(payload.FlaggedURLs)),
		zap.Duration("duration", time.Since(start)))

	return &verdict, nil
}

func (s *AnalysisService) observe(outcome string, tier SeverityTier, start time.Time) {
	if s.recorder == nil {
		return
	}
	s.recorder.ObserveAnalysis(outcome, tier, time.Since(start))
}
