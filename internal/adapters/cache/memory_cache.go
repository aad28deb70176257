package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mikey/phish-verdict/internal/core"
	"github.com/mikey/phish-verdict/internal/ports"
	"go.uber.org/zap"
)

type memoryEntry struct {
	payload   core.RawAnalysisPayload
	expiresAt time.Time
}

// MemoryCache is an in-memory implementation of the PayloadCache interface
type MemoryCache struct {
	entries     map[string]memoryEntry
	mu          sync.RWMutex
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(logger *zap.Logger, cleanupFreq time.Duration) *MemoryCache {
	cache := &MemoryCache{
		entries:     make(map[string]memoryEntry),
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
		now:         time.Now,
	}

	if cleanupFreq > 0 {
		go cache.startCleanupTask()
	}

	return cache
}

// Get retrieves a live payload
func (c *MemoryCache) Get(ctx context.Context, key string) (*core.RawAnalysisPayload, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, ports.ErrCacheMiss
	}

	payload := copyPayload(entry.payload)
	return &payload, nil
}

// Set stores a payload for ttl
func (c *MemoryCache) Set(ctx context.Context, key string, payload *core.RawAnalysisPayload, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		payload:   copyPayload(*payload),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Delete removes an entry
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Cleanup removes expired entries
func (c *MemoryCache) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expiredCount := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			expiredCount++
		}
	}

	c.logger.Debug("Cleaned up expired cache entries", zap.Int("expired_count", expiredCount))
	return nil
}

// Len returns the number of stored entries, expired or not
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// startCleanupTask starts a background task to clean up expired entries
func (c *MemoryCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task
func (c *MemoryCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func copyPayload(p core.RawAnalysisPayload) core.RawAnalysisPayload {
	if p.SuspiciousSignals != nil {
		p.SuspiciousSignals = append([]string{}, p.SuspiciousSignals...)
	}
	if p.FlaggedURLs != nil {
		p.FlaggedURLs = append([]string{}, p.FlaggedURLs...)
	}
	return p
}
