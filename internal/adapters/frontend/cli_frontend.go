package frontend

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mikey/phish-verdict/internal/core"
	"go.uber.org/zap"
)

// CliFrontend prints the verdict for a single email
type CliFrontend struct {
	analyzer core.Analyzer
	logger   *zap.Logger
	out      io.Writer
	verbose  bool
}

// NewCliFrontend creates a new CLI frontend
func NewCliFrontend(analyzer core.Analyzer, logger *zap.Logger, out io.Writer, verbose bool) *CliFrontend {
	return &CliFrontend{
		analyzer: analyzer,
		logger:   logger,
		out:      out,
		verbose:  verbose,
	}
}

// ProcessEmail analyzes email text and prints the verdict
func (f *CliFrontend) ProcessEmail(ctx context.Context, emailText string) (*core.Verdict, error) {
	f.logger.Debug("Processing email", zap.Int("text_length", len(emailText)))

	if f.verbose {
		preview := emailText
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Fprintf(f.out, "\n=== Email Preview ===\n%s\n", preview)
	}

	startTime := time.Now()
	verdict, err := f.analyzer.Analyze(ctx, emailText)
	if err != nil {
		fmt.Fprintf(f.out, "Error: %s\n", core.UserMessage(err))
		if f.verbose {
			fmt.Fprintf(f.out, "Cause: %v\n", err)
		}
		return nil, err
	}

	PrintVerdict(f.out, verdict)
	if f.verbose {
		fmt.Fprintf(f.out, "Processing time: %v\n", time.Since(startTime))
	}

	return verdict, nil
}

// PrintVerdict renders a verdict as plain text
func PrintVerdict(w io.Writer, verdict *core.Verdict) {
	fmt.Fprintf(w, "\n=== %s ===\n", verdict.Banner.Headline)
	fmt.Fprintf(w, "%s\n\n", verdict.Banner.Detail)
	fmt.Fprintf(w, "Phishing score: %d%% (%s)\n", verdict.DisplayScore, verdict.SeverityTier)

	fmt.Fprintf(w, "\nWarning signals:\n")
	for _, signal := range verdict.WarningSignals {
		fmt.Fprintf(w, "  - %s\n", signal)
	}

	fmt.Fprintf(w, "\nSafe signals:\n")
	if len(verdict.ReassuringSignals) == 0 {
		fmt.Fprintf(w, "  (none)\n")
	}
	for _, signal := range verdict.ReassuringSignals {
		fmt.Fprintf(w, "  - %s\n", signal)
	}
}

// Start is a no-op for the CLI frontend
func (f *CliFrontend) Start() error {
	return nil
}

// Stop is a no-op for the CLI frontend
func (f *CliFrontend) Stop() error {
	return nil
}
