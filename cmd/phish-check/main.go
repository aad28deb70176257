package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mikey/phish-verdict/internal/adapters/frontend"
	"github.com/mikey/phish-verdict/internal/core"
	"github.com/mikey/phish-verdict/internal/di"
	"github.com/mikey/phish-verdict/internal/ports"
	"go.uber.org/zap"
)

func main() {
	flags, err := di.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// run reads one email, prints its verdict and reports failure through the returned error
func run(flags *di.CLIFlags, logger *zap.Logger, cli ports.Frontend, detector core.Detector) error {
	defer logger.Sync()
	defer func() {
		if closer, ok := detector.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Warn("Failed to close detector", zap.Error(err))
			}
		}
	}()

	raw, err := readInput(flags.InputFile)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	text := string(raw)
	if !flags.Raw {
		text = analysisText(raw, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := cli.ProcessEmail(ctx, text); err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// analysisText extracts the readable body of a MIME message, falling back to the raw input
func analysisText(raw []byte, logger *zap.Logger) string {
	parsed, err := frontend.ParseEmail(raw)
	if err != nil {
		logger.Debug("Input is not a MIME message, analyzing as plain text", zap.Error(err))
		return string(raw)
	}
	if strings.TrimSpace(parsed.Text) == "" {
		return string(raw)
	}
	return parsed.AnalysisText()
}
