package ports

import (
	"context"

	"github.com/mikey/phish-verdict/internal/core"
)

// Frontend presents verdicts to users or mail systems
type Frontend interface {
	// ProcessEmail analyzes email text and presents the verdict
	ProcessEmail(ctx context.Context, emailText string) (*core.Verdict, error)

	// Start starts the frontend
	Start() error

	// Stop stops the frontend
	Stop() error
}
