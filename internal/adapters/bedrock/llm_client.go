package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/phish-verdict/internal/adapters/llm"
	"github.com/mikey/phish-verdict/internal/core"
	"github.com/mikey/phish-verdict/internal/utils"
	"go.uber.org/zap"
)

// modelInvoker is the part of the Bedrock runtime client used by the detector
type modelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient is an implementation of the Detector interface using Amazon Bedrock
type BedrockClient struct {
	client        modelInvoker
	modelID       string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewBedrockClient creates a new Bedrock detector
func NewBedrockClient(
	client modelInvoker,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *BedrockClient {
	return &BedrockClient{
		client:        client,
		modelID:       modelID,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Analyze asks the model for a phishing analysis of the email text
func (c *BedrockClient) Analyze(ctx context.Context, text string) (*core.RawAnalysisPayload, error) {
	prompt := llm.BuildPrompt(c.textProcessor.ProcessText(text, c.maxBodySize))

	body, err := c.requestBody(prompt)
	if err != nil {
		return nil, &core.TransportError{Op: "encode bedrock request", Err: err}
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, classifyError(err)
	}

	responseText, err := c.responseText(resp.Body)
	if err != nil {
		return nil, err
	}

	payload, err := llm.ParseResponse(responseText)
	if err != nil {
		c.logger.Warn("Bedrock returned an unusable analysis",
			zap.Error(err),
			zap.String("model", c.modelID))
		return nil, err
	}

	return payload, nil
}

// requestBody builds the model-family specific request payload
func (c *BedrockClient) requestBody(prompt string) ([]byte, error) {
	switch {
	case c.isAnthropicModel():
		return json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	case c.isAmazonTitanModel():
		return json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	default:
		return json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
}

// responseText extracts the generated text from a model-family specific response
func (c *BedrockClient) responseText(body []byte) (string, error) {
	switch {
	case c.isAnthropicModel():
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", &core.MalformedPayloadError{Reason: "unreadable Claude response", Err: err}
		}
		return claudeResp.Completion, nil
	case c.isAmazonTitanModel():
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", &core.MalformedPayloadError{Reason: "unreadable Titan response", Err: err}
		}
		if len(titanResp.Results) == 0 {
			return "", &core.MalformedPayloadError{Reason: "empty response from Titan model"}
		}
		return titanResp.Results[0].OutputText, nil
	default:
		var genericResp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(body, &genericResp); err != nil {
			return string(body), nil
		}
		switch {
		case genericResp.Output != "":
			return genericResp.Output, nil
		case genericResp.Text != "":
			return genericResp.Text, nil
		case genericResp.Response != "":
			return genericResp.Response, nil
		default:
			return string(body), nil
		}
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *BedrockClient) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *BedrockClient) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}

// classifyError maps AWS SDK errors onto the detector failure taxonomy
func classifyError(err error) error {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return &core.ServiceError{StatusCode: respErr.HTTPStatusCode(), Body: respErr.Error()}
	}
	return &core.TransportError{Op: "bedrock invoke model", Err: err}
}
