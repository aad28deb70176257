package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/mikey/phish-verdict/internal/core"
)

// Key returns the cache key for email text
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func encodeEntry(payload *core.RawAnalysisPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return string(data), nil
}

func decodeEntry(data string) (*core.RawAnalysisPayload, error) {
	var payload core.RawAnalysisPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return &payload, nil
}
