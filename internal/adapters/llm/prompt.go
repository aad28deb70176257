// Package llm holds the prompt and response handling shared by the model-backed detectors.
package llm

import (
	"fmt"
	"strings"

	"github.com/mikey/phish-verdict/internal/core"
)

// SystemPrompt is sent as the system message where the provider supports one
const SystemPrompt = "You are a phishing detection system. Respond only with JSON."

// PromptFormat asks the model for the detection service's response shape
const PromptFormat = `You are a phishing detection system. Analyze the following email and determine if it is a phishing attempt.
Respond with a JSON object containing:
- email_score: number between 0 and 100 (higher means more likely to be phishing)
- phishing: boolean (true if phishing, false if not)
- suspicious_words: array of strings (words or phrases in the email that indicate phishing, empty if none)
- flagged_urls: array of strings (URLs from the email that you consider dangerous, empty if none)

Email:
%s

Respond only with the JSON object and nothing else.`

// BuildPrompt formats the analysis prompt for already processed email text
func BuildPrompt(text string) string {
	return fmt.Sprintf(PromptFormat, text)
}

// ParseResponse decodes a model reply, tolerating prose around the JSON object
func ParseResponse(responseText string) (*core.RawAnalysisPayload, error) {
	payload, err := core.DecodePayload([]byte(responseText))
	if err == nil {
		return payload, nil
	}

	start := strings.Index(responseText, "{")
	end := strings.LastIndex(responseText, "}")
	if start < 0 || end <= start {
		return nil, &core.MalformedPayloadError{Reason: "no JSON object in model response", Err: err}
	}

	return core.DecodePayload([]byte(responseText[start : end+1]))
}
