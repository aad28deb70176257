package utils_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mikey/phish-verdict/internal/utils"
)

func TestTruncateText(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())

	if got := tp.TruncateText("short", 100); got != "short" {
		t.Errorf("TruncateText short = %q", got)
	}
	if got := tp.TruncateText("unlimited", 0); got != "unlimited" {
		t.Errorf("TruncateText with no limit = %q", got)
	}

	got := tp.TruncateText("abcdefghij", 4)
	if got != "abcd"+utils.TruncationMarker {
		t.Errorf("TruncateText = %q", got)
	}
}

func TestTruncateText_KeepsRunesWhole(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())

	// "é" is two bytes; cutting at 2 would split it
	got := tp.TruncateText("a\u00e9", 2)
	prefix := strings.TrimSuffix(got, utils.TruncationMarker)
	if prefix != "a" {
		t.Errorf("prefix = %q, want %q", prefix, "a")
	}
	if !utf8.ValidString(got) {
		t.Error("result is not valid UTF-8")
	}
}

func TestSanitizeUTF8(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())

	got := tp.SanitizeUTF8("ver\xffify")
	if got != "verify" {
		t.Errorf("SanitizeUTF8 = %q", got)
	}

	// Decomposed e + combining acute becomes the precomposed form
	if got := tp.SanitizeUTF8("cafe\u0301"); got != "caf\u00e9" {
		t.Errorf("SanitizeUTF8 did not normalize: %q", got)
	}
}

func TestProcessText(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())
	got := tp.ProcessText("\xffabcdef", 3)
	if got != "abc"+utils.TruncationMarker {
		t.Errorf("ProcessText = %q", got)
	}
}
