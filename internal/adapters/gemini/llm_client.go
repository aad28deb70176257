package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/phish-verdict/internal/adapters/llm"
	"github.com/mikey/phish-verdict/internal/core"
	"github.com/mikey/phish-verdict/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// contentGenerator is the part of the Gemini model used by the detector
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClient is an implementation of the Detector interface using Google Gemini
type GeminiClient struct {
	client        *genai.Client
	model         contentGenerator
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGeminiClient creates a new Gemini detector
func NewGeminiClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = genai.NewUserContent(genai.Text(llm.SystemPrompt))

	return &GeminiClient{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Analyze asks the model for a phishing analysis of the email text
func (c *GeminiClient) Analyze(ctx context.Context, text string) (*core.RawAnalysisPayload, error) {
	processed := c.textProcessor.ProcessText(text, c.maxBodySize)

	resp, err := c.model.GenerateContent(ctx, genai.Text(llm.BuildPrompt(processed)))
	if err != nil {
		return nil, classifyError(err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &core.MalformedPayloadError{Reason: "empty response from Gemini"}
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			reply.WriteString(string(t))
		}
	}

	payload, err := llm.ParseResponse(reply.String())
	if err != nil {
		c.logger.Warn("Gemini returned an unusable analysis",
			zap.Error(err),
			zap.String("model", c.modelName))
		return nil, err
	}

	return payload, nil
}

// classifyError maps Gemini client errors onto the detector failure taxonomy
func classifyError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &core.ServiceError{StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	return &core.TransportError{Op: "gemini generate content", Err: err}
}
