package core

// RawAnalysisPayload is the result returned by a detection service
type RawAnalysisPayload struct {
	Score             float64  `json:"email_score"`
	IsMalicious       bool     `json:"phishing"`
	SuspiciousSignals []string `json:"suspicious_words"`
	FlaggedURLs       []string `json:"flagged_urls"`
}

// SeverityTier is a discrete risk bucket derived from a score
type SeverityTier string

const (
	SeverityLow      SeverityTier = "low"
	SeverityMedium   SeverityTier = "medium"
	SeverityHigh     SeverityTier = "high"
	SeverityCritical SeverityTier = "critical"
)

// Banner is the headline shown above a verdict
type Banner struct {
	Headline string `json:"headline"`
	Detail   string `json:"detail"`
}

// Verdict is the display-ready outcome of classifying a payload
type Verdict struct {
	Score             float64      `json:"score"`
	DisplayScore      int          `json:"display_score"`
	IsMalicious       bool         `json:"is_malicious"`
	SeverityTier      SeverityTier `json:"severity_tier"`
	Banner            Banner       `json:"banner"`
	WarningSignals    []string     `json:"warning_signals"`
	ReassuringSignals []string     `json:"reassuring_signals"`
}
