package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/phish-verdict/internal/adapters/cache"
	"github.com/mikey/phish-verdict/internal/config"
	"github.com/mikey/phish-verdict/internal/ports"
	"go.uber.org/zap"
)

// CacheFactory creates payload caches based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreatePayloadCache creates a payload cache based on the configuration
func (f *CacheFactory) CreatePayloadCache() (ports.PayloadCache, error) {
	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return nil, fmt.Errorf("invalid cache configuration: %w", err)
	}

	switch cacheCfg.Type {
	case "memory":
		return cache.NewMemoryCache(f.logger, cacheCfg.CleanupFrequency), nil
	case "sqlite":
		if cacheCfg.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cacheCfg.SQLitePath), 0755); err != nil {
				return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
			}
		}
		return cache.NewSQLiteCache(cacheCfg.SQLitePath, f.logger, cacheCfg.CleanupFrequency)
	case "mysql":
		return cache.NewMySQLCache(cacheCfg.MySQLDSN, f.logger, cacheCfg.CleanupFrequency)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheCfg.Type)
	}
}
