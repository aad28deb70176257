package core

import "math"

// Tier boundaries. Each is the inclusive lower bound of its tier.
const (
	MediumThreshold   = 25.0
	HighThreshold     = 50.0
	CriticalThreshold = 75.0
	MaxScore          = 100.0
)

const (
	// NoSuspiciousSignals is the warning entry used when the service found no suspicious text
	NoSuspiciousSignals = "No suspicious words"
	// NoFlaggedURLs is the reassuring entry used when the service flagged no URL
	NoFlaggedURLs = "No phishing URLs detected"
)

var (
	maliciousBanner = Banner{
		Headline: "Warning: Potential Phishing Detected",
		Detail:   "This email contains suspicious elements",
	}
	safeBanner = Banner{
		Headline: "Email Appears Safe",
		Detail:   "No significant phishing indicators found",
	}
)

// TierForScore maps a score to its severity tier
func TierForScore(score float64) SeverityTier {
	switch {
	case score >= CriticalThreshold:
		return SeverityCritical
	case score >= HighThreshold:
		return SeverityHigh
	case score >= MediumThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Classify turns a detection payload into a verdict. It has no side effects.
func Classify(payload RawAnalysisPayload) Verdict {
	verdict := Verdict{
		Score:        payload.Score,
		DisplayScore: int(math.Round(payload.Score)),
		IsMalicious:  payload.IsMalicious,
		SeverityTier: TierForScore(payload.Score),
		Banner:       safeBanner,
	}
	if payload.IsMalicious {
		verdict.Banner = maliciousBanner
	}

	if len(payload.SuspiciousSignals) > 0 {
		verdict.WarningSignals = append([]string{}, payload.SuspiciousSignals...)
	} else {
		verdict.WarningSignals = []string{NoSuspiciousSignals}
	}

	// Reassurance only looks at flagged URLs, not at IsMalicious or the text signals.
	if len(payload.FlaggedURLs) == 0 {
		verdict.ReassuringSignals = []string{NoFlaggedURLs}
	} else {
		verdict.ReassuringSignals = []string{}
	}

	return verdict
}
