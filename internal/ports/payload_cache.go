package ports

import (
	"context"
	"errors"
	"time"

	"github.com/mikey/phish-verdict/internal/core"
)

// ErrCacheMiss is returned when no live entry exists for a key
var ErrCacheMiss = errors.New("cache entry not found")

// PayloadCache stores detection payloads keyed by a digest of the email text
type PayloadCache interface {
	// Get retrieves a live payload
	Get(ctx context.Context, key string) (*core.RawAnalysisPayload, error)

	// Set stores a payload for ttl
	Set(ctx context.Context, key string, payload *core.RawAnalysisPayload, ttl time.Duration) error

	// Delete removes an entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
