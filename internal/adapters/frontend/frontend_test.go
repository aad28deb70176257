package frontend

import (
	"context"
	"sync"

	"github.com/mikey/phish-verdict/internal/core"
)

// stubDetector answers every call with the same payload or error.
// When block is set it waits for cancellation instead.
type stubDetector struct {
	mu      sync.Mutex
	texts   []string
	payload *core.RawAnalysisPayload
	err     error
	block   map[string]chan struct{}
}

func (d *stubDetector) Analyze(ctx context.Context, text string) (*core.RawAnalysisPayload, error) {
	d.mu.Lock()
	d.texts = append(d.texts, text)
	started, blocking := d.block[text]
	d.mu.Unlock()

	if blocking {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return d.payload, d.err
}

func (d *stubDetector) calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.texts...)
}

func phishingPayload() *core.RawAnalysisPayload {
	return &core.RawAnalysisPayload{
		Score:             91.6,
		IsMalicious:       true,
		SuspiciousSignals: []string{"verify your account", "urgent"},
		FlaggedURLs:       []string{"http://evil.example/login"},
	}
}

func cleanPayload() *core.RawAnalysisPayload {
	return &core.RawAnalysisPayload{
		Score:             4,
		IsMalicious:       false,
		SuspiciousSignals: []string{},
		FlaggedURLs:       []string{},
	}
}
