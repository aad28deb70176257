package di

import (
	"go.uber.org/dig"

	"github.com/mikey/phish-verdict/internal/config"
	"github.com/mikey/phish-verdict/internal/core"
	"github.com/mikey/phish-verdict/internal/factory"
	"github.com/mikey/phish-verdict/internal/logging"
	"github.com/mikey/phish-verdict/internal/metrics"
	"github.com/mikey/phish-verdict/internal/ports"
	"github.com/mikey/phish-verdict/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideAnalysis(container); err != nil {
		return nil, err
	}

	return container, nil
}

// provideAnalysis registers everything downstream of configuration and logging
func provideAnalysis(container *dig.Container) error {
	// Register metrics
	if err := container.Provide(metrics.NewRecorder); err != nil {
		return err
	}
	if err := container.Provide(func(r *metrics.Recorder) core.Recorder { return r }); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Register factories
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewDetectorFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return err
	}

	// Register detector
	if err := container.Provide(func(f *factory.DetectorFactory) (core.Detector, error) {
		return f.CreateDetector()
	}); err != nil {
		return err
	}

	// Register analysis service
	if err := container.Provide(core.NewAnalysisService); err != nil {
		return err
	}

	// Register frontend
	if err := container.Provide(func(f *factory.FrontendFactory) (ports.Frontend, error) {
		return f.CreateFrontend()
	}); err != nil {
		return err
	}

	return nil
}
