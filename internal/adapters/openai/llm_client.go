package openai

import (
	"context"
	"errors"

	"github.com/mikey/phish-verdict/internal/adapters/llm"
	"github.com/mikey/phish-verdict/internal/core"
	"github.com/mikey/phish-verdict/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// chatCompleter is the part of the OpenAI client used by the detector
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient is an implementation of the Detector interface using OpenAI
type OpenAIClient struct {
	client        chatCompleter
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewOpenAIClient creates a new OpenAI detector
func NewOpenAIClient(
	client chatCompleter,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClient {
	return &OpenAIClient{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Analyze asks the model for a phishing analysis of the email text
func (c *OpenAIClient) Analyze(ctx context.Context, text string) (*core.RawAnalysisPayload, error) {
	processed := c.textProcessor.ProcessText(text, c.maxBodySize)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: llm.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: llm.BuildPrompt(processed),
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &core.MalformedPayloadError{Reason: "empty response from OpenAI"}
	}

	payload, err := llm.ParseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		c.logger.Warn("OpenAI returned an unusable analysis",
			zap.Error(err),
			zap.String("model", c.modelName),
			zap.String("response_id", resp.ID))
		return nil, err
	}

	c.logger.Debug("OpenAI analysis complete",
		zap.String("model", c.modelName),
		zap.String("response_id", resp.ID),
		zap.Float64("score", payload.Score))

	return payload, nil
}

// classifyError maps OpenAI client errors onto the detector failure taxonomy
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &core.ServiceError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &core.ServiceError{StatusCode: reqErr.HTTPStatusCode, Body: string(reqErr.Body)}
	}
	return &core.TransportError{Op: "openai chat completion", Err: err}
}
