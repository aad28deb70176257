package frontend

import (
	"strings"
	"testing"
)

func TestParseEmail_PlainText(t *testing.T) {
	raw := "From: Alice <alice@example.com>\r\n" +
		"To: bob@example.org\r\n" +
		"Subject: Quarterly report\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Numbers attached.\r\n"

	parsed, err := ParseEmail([]byte(raw))
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}
	if parsed.From != "alice@example.com" {
		t.Errorf("From = %q, want alice@example.com", parsed.From)
	}
	if parsed.Subject != "Quarterly report" {
		t.Errorf("Subject = %q", parsed.Subject)
	}
	if parsed.Text != "Numbers attached." {
		t.Errorf("Text = %q", parsed.Text)
	}
	if got, want := parsed.AnalysisText(), "Subject: Quarterly report\n\nNumbers attached."; got != want {
		t.Errorf("AnalysisText = %q, want %q", got, want)
	}
}

func TestParseEmail_MultipartPrefersPlainPart(t *testing.T) {
	raw := "From: billing@example.com\r\n" +
		"Subject: Invoice\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Plain body\r\n" +
		"--b1\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<p>HTML body</p>\r\n" +
		"--b1--\r\n"

	parsed, err := ParseEmail([]byte(raw))
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}
	if parsed.Text != "Plain body" {
		t.Errorf("Text = %q, want plain part", parsed.Text)
	}
}

func TestParseEmail_HTMLOnlyKeepsLinks(t *testing.T) {
	raw := "From: security@bank.example\r\n" +
		"Subject: Action required\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<html><body><p>Your account is locked.</p>" +
		"<a href=\"http://evil.example/login\">Unlock now</a></body></html>\r\n"

	parsed, err := ParseEmail([]byte(raw))
	if err != nil {
		t.Fatalf("ParseEmail: %v", err)
	}
	for _, want := range []string{"Your account is locked.", "Unlock now", "http://evil.example/login"} {
		if !strings.Contains(parsed.Text, want) {
			t.Errorf("Text %q does not contain %q", parsed.Text, want)
		}
	}
	if strings.Contains(parsed.Text, "<p>") {
		t.Errorf("Text still contains markup: %q", parsed.Text)
	}
}

func TestAnalysisText_NoSubject(t *testing.T) {
	e := &ParsedEmail{Text: "body only"}
	if got := e.AnalysisText(); got != "body only" {
		t.Errorf("AnalysisText = %q, want body only", got)
	}
}
