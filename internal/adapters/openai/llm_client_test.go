package openai

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/phish-verdict/internal/core"
	"github.com/mikey/phish-verdict/internal/utils"
)

type stubCompleter struct {
	req  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.req = req
	return s.resp, s.err
}

func newTestClient(stub *stubCompleter, maxBodySize int) *OpenAIClient {
	logger := zap.NewNop()
	return NewOpenAIClient(stub, "gpt-test", 500, 0.1, 0.9, maxBodySize, logger, utils.NewTextProcessor(logger))
}

func TestAnalyze_DecodesReply(t *testing.T) {
	stub := &stubCompleter{resp: openai.ChatCompletionResponse{
		ID: "chatcmpl-1",
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Content: `{"email_score": 81, "phishing": true, "suspicious_words": ["urgent"], "flagged_urls": []}`,
			},
		}},
	}}

	payload, err := newTestClient(stub, 10).Analyze(context.Background(), "urgent: this body is longer than ten bytes")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if payload.Score != 81 || !payload.IsMalicious {
		t.Errorf("unexpected payload: %+v", payload)
	}

	if stub.req.Model != "gpt-test" || len(stub.req.Messages) != 2 {
		t.Fatalf("unexpected request: %+v", stub.req)
	}
	if !strings.Contains(stub.req.Messages[1].Content, utils.TruncationMarker) {
		t.Error("email body was not truncated to max body size")
	}
}

func TestAnalyze_EmptyChoicesIsMalformed(t *testing.T) {
	_, err := newTestClient(&stubCompleter{}, 0).Analyze(context.Background(), "hi")
	var malformed *core.MalformedPayloadError
	if !errors.As(err, &malformed) {
		t.Errorf("expected MalformedPayloadError, got %v", err)
	}
}

func TestAnalyze_ErrorMapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"api error", &openai.APIError{HTTPStatusCode: 429, Message: "rate limited"}, func(err error) bool {
			var e *core.ServiceError
			return errors.As(err, &e) && e.StatusCode == 429
		}},
		{"request error", &openai.RequestError{HTTPStatusCode: 502, Err: io.EOF}, func(err error) bool {
			var e *core.ServiceError
			return errors.As(err, &e) && e.StatusCode == 502
		}},
		{"network", io.ErrUnexpectedEOF, func(err error) bool {
			var e *core.TransportError
			return errors.As(err, &e)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestClient(&stubCompleter{err: tt.err}, 0).Analyze(context.Background(), "hi")
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
