package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// TruncationMarker is appended to text cut at the size limit
const TruncationMarker = "\n[... Content truncated due to size limits ...]"

// TextProcessor prepares email text before it is sent to a model
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText cuts text to at most maxSize bytes without splitting a UTF-8 sequence
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return truncated + TruncationMarker
}

// SanitizeUTF8 drops invalid UTF-8 bytes and normalizes the text to NFC
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	sanitized := text
	if !utf8.ValidString(text) {
		sanitized = strings.ToValidUTF8(text, "")
		tp.logger.Debug("Text sanitized",
			zap.Int("original_size", len(text)),
			zap.Int("sanitized_size", len(sanitized)))
	}
	return norm.NFC.String(sanitized)
}

// ProcessText sanitizes and truncates text in one operation
func (tp *TextProcessor) ProcessText(text string, maxSize int) string {
	return tp.TruncateText(tp.SanitizeUTF8(text), maxSize)
}
