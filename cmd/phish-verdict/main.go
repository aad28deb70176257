package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/phish-verdict/internal/core"
	"github.com/mikey/phish-verdict/internal/di"
	"github.com/mikey/phish-verdict/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(logger *zap.Logger, frontend ports.Frontend, detector core.Detector) error {
	defer logger.Sync()

	if err := frontend.Start(); err != nil {
		logger.Error("Failed to start frontend", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("Shutting down...", zap.String("signal", sig.String()))

	if err := frontend.Stop(); err != nil {
		logger.Error("Failed to stop frontend", zap.Error(err))
	}

	// Closes the LLM client and stops the payload cache when one is wrapped around it
	if closer, ok := detector.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close detector", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
