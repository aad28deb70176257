package frontend

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jaytaylor/html2text"
	"github.com/jhillyerd/enmime"
)

// ParsedEmail is the part of a message the detector sees, plus the sender for trust checks
type ParsedEmail struct {
	From    string
	Subject string
	Text    string
}

// ParseEmail reads a raw RFC 5322 message
func ParseEmail(raw []byte) (*ParsedEmail, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse email message: %w", err)
	}

	text, err := envelopeText(env)
	if err != nil {
		return nil, err
	}

	parsed := &ParsedEmail{
		Subject: env.GetHeader("Subject"),
		Text:    text,
	}
	if addrs, err := env.AddressList("From"); err == nil && len(addrs) > 0 {
		parsed.From = addrs[0].Address
	}
	return parsed, nil
}

// AnalysisText is the text submitted for analysis: the subject line followed by the body
func (e *ParsedEmail) AnalysisText() string {
	if e.Subject == "" {
		return e.Text
	}
	return "Subject: " + e.Subject + "\n\n" + e.Text
}

// envelopeText prefers the plain-text body and falls back to rendered HTML
func envelopeText(env *enmime.Envelope) (string, error) {
	if text := strings.TrimSpace(env.Text); text != "" {
		return text, nil
	}
	if strings.TrimSpace(env.HTML) == "" {
		return "", nil
	}

	// Links stay in the output so flagged URLs remain visible to the detector
	text, err := html2text.FromString(env.HTML, html2text.Options{OmitLinks: false})
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML body: %w", err)
	}
	return strings.TrimSpace(text), nil
}
