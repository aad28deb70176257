package cache

import (
	"context"
	"errors"
	"time"

	"github.com/mikey/phish-verdict/internal/core"
	"github.com/mikey/phish-verdict/internal/ports"
	"go.uber.org/zap"
)

// LookupObserver is notified of every cache lookup
type LookupObserver interface {
	ObserveCacheLookup(hit bool)
}

// CachingDetector serves repeated email texts from a PayloadCache.
// Only successful payloads are stored; failures always reach the wrapped detector again.
type CachingDetector struct {
	next     core.Detector
	cache    ports.PayloadCache
	ttl      time.Duration
	observer LookupObserver
	logger   *zap.Logger
}

// NewCachingDetector wraps next with cache. observer may be nil.
func NewCachingDetector(next core.Detector, cache ports.PayloadCache, ttl time.Duration, observer LookupObserver, logger *zap.Logger) *CachingDetector {
	return &CachingDetector{
		next:     next,
		cache:    cache,
		ttl:      ttl,
		observer: observer,
		logger:   logger,
	}
}

// Analyze returns a cached payload or calls the wrapped detector
func (d *CachingDetector) Analyze(ctx context.Context, text string) (*core.RawAnalysisPayload, error) {
	key := Key(text)

	payload, err := d.cache.Get(ctx, key)
	switch {
	case err == nil:
		d.observe(true)
		d.logger.Debug("Payload cache hit", zap.String("key", key[:12]))
		return payload, nil
	case !errors.Is(err, ports.ErrCacheMiss):
		d.logger.Warn("Payload cache lookup failed", zap.Error(err))
	}
	d.observe(false)

	payload, err = d.next.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := d.cache.Set(ctx, key, payload, d.ttl); err != nil {
		d.logger.Error("Failed to update payload cache", zap.Error(err))
	}

	return payload, nil
}

// Close releases the wrapped detector and stops the cache
func (d *CachingDetector) Close() error {
	if stopper, ok := d.cache.(interface{ Stop() }); ok {
		stopper.Stop()
	}
	if closer, ok := d.next.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func (d *CachingDetector) observe(hit bool) {
	if d.observer != nil {
		d.observer.ObserveCacheLookup(hit)
	}
}
