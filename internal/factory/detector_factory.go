package factory

import (
	"fmt"

	"github.com/mikey/phish-verdict/internal/adapters/bedrock"
	"github.com/mikey/phish-verdict/internal/adapters/cache"
	"github.com/mikey/phish-verdict/internal/adapters/detector"
	"github.com/mikey/phish-verdict/internal/adapters/gemini"
	"github.com/mikey/phish-verdict/internal/adapters/openai"
	"github.com/mikey/phish-verdict/internal/config"
	"github.com/mikey/phish-verdict/internal/core"
	"github.com/mikey/phish-verdict/internal/metrics"
	"github.com/mikey/phish-verdict/internal/utils"
	"go.uber.org/zap"
)

// DetectorFactory creates the configured detector, wrapped in a payload cache when enabled
type DetectorFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	cacheFactory  *CacheFactory
	recorder      *metrics.Recorder
}

// NewDetectorFactory creates a new detector factory
func NewDetectorFactory(
	cfg *config.Config,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	cacheFactory *CacheFactory,
	recorder *metrics.Recorder,
) *DetectorFactory {
	return &DetectorFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
		cacheFactory:  cacheFactory,
		recorder:      recorder,
	}
}

// CreateDetector creates a detector based on the configuration
func (f *DetectorFactory) CreateDetector() (core.Detector, error) {
	base, err := f.createBaseDetector()
	if err != nil {
		return nil, err
	}

	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return nil, fmt.Errorf("invalid cache configuration: %w", err)
	}
	if !cacheCfg.Enabled {
		return base, nil
	}

	store, err := f.cacheFactory.CreatePayloadCache()
	if err != nil {
		return nil, fmt.Errorf("failed to create payload cache: %w", err)
	}

	f.logger.Info("Payload cache enabled",
		zap.String("type", cacheCfg.Type),
		zap.Duration("ttl", cacheCfg.TTL))

	var observer cache.LookupObserver
	if f.recorder != nil {
		observer = f.recorder
	}
	return cache.NewCachingDetector(base, store, cacheCfg.TTL, observer, f.logger), nil
}

func (f *DetectorFactory) createBaseDetector() (core.Detector, error) {
	detectorCfg, err := f.cfg.GetDetector()
	if err != nil {
		return nil, fmt.Errorf("invalid detector configuration: %w", err)
	}

	f.logger.Info("Creating detector", zap.String("provider", detectorCfg.Provider))

	switch detectorCfg.Provider {
	case "http":
		httpCfg, err := f.cfg.GetHTTPDetector()
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP detector configuration: %w", err)
		}
		return detector.NewHTTPClient(httpCfg.Endpoint, httpCfg.Timeout, f.logger), nil
	case "openai":
		return openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateDetector()
	case "gemini":
		return gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateDetector()
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateDetector()
	default:
		return nil, fmt.Errorf("unsupported detector provider: %s", detectorCfg.Provider)
	}
}
