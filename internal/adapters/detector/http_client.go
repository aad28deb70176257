package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mikey/phish-verdict/internal/core"
	"go.uber.org/zap"
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 4 << 20

// analyzeRequest is the body posted to the detection service
type analyzeRequest struct {
	Email string `json:"email"`
}

// HTTPClient is an implementation of the Detector interface for the remote detection service
type HTTPClient struct {
	client   *http.Client
	endpoint string
	logger   *zap.Logger
}

// NewHTTPClient creates a new detection service client
func NewHTTPClient(endpoint string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		logger:   logger,
	}
}

// Analyze posts the email text to the detection service and decodes the response
func (c *HTTPClient) Analyze(ctx context.Context, text string) (*core.RawAnalysisPayload, error) {
	body, err := json.Marshal(analyzeRequest{Email: text})
	if err != nil {
		return nil, &core.TransportError{Op: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &core.TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Calling detection service",
		zap.String("endpoint", c.endpoint),
		zap.Int("text_length", len(text)))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &core.TransportError{Op: "post " + c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &core.TransportError{Op: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &core.ServiceError{
			StatusCode: resp.StatusCode,
			Body:       snippet(respBody),
		}
	}

	payload, err := core.DecodePayload(respBody)
	if err != nil {
		c.logger.Warn("Detection service returned an unexpected payload",
			zap.Error(err),
			zap.String("body", snippet(respBody)))
		return nil, err
	}

	return payload, nil
}

// Endpoint returns the configured detection service URL
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return fmt.Sprintf("%s... (%d bytes)", s[:200], len(s))
	}
	return s
}
