package gemini

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	"github.com/mikey/phish-verdict/internal/core"
	"github.com/mikey/phish-verdict/internal/utils"
)

type stubModel struct {
	parts []genai.Part
	resp  *genai.GenerateContentResponse
	err   error
}

func (s *stubModel) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	s.parts = parts
	return s.resp, s.err
}

func newTestClient(model *stubModel) *GeminiClient {
	logger := zap.NewNop()
	return &GeminiClient{
		model:         model,
		modelName:     "gemini-test",
		logger:        logger,
		textProcessor: utils.NewTextProcessor(logger),
	}
}

func textResponse(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestAnalyze_JoinsTextParts(t *testing.T) {
	model := &stubModel{resp: textResponse(
		genai.Text(`{"email_score": 55, "phishing": true, `),
		genai.Text(`"suspicious_words": ["login"], "flagged_urls": ["http://x.example"]}`),
	)}

	payload, err := newTestClient(model).Analyze(context.Background(), "please login")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if payload.Score != 55 || len(payload.FlaggedURLs) != 1 {
		t.Errorf("unexpected payload: %+v", payload)
	}
	if len(model.parts) != 1 {
		t.Errorf("expected one prompt part, got %d", len(model.parts))
	}
}

func TestAnalyze_EmptyCandidates(t *testing.T) {
	_, err := newTestClient(&stubModel{resp: &genai.GenerateContentResponse{}}).Analyze(context.Background(), "hi")
	var malformed *core.MalformedPayloadError
	if !errors.As(err, &malformed) {
		t.Errorf("expected MalformedPayloadError, got %v", err)
	}
}

func TestAnalyze_ErrorMapping(t *testing.T) {
	_, err := newTestClient(&stubModel{err: &googleapi.Error{Code: 403, Message: "API key invalid"}}).Analyze(context.Background(), "hi")
	var serviceErr *core.ServiceError
	if !errors.As(err, &serviceErr) || serviceErr.StatusCode != 403 {
		t.Errorf("expected ServiceError 403, got %v", err)
	}

	_, err = newTestClient(&stubModel{err: io.EOF}).Analyze(context.Background(), "hi")
	var transportErr *core.TransportError
	if !errors.As(err, &transportErr) {
		t.Errorf("expected TransportError, got %v", err)
	}
}

func TestClose_NilClient(t *testing.T) {
	if err := newTestClient(&stubModel{}).Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
