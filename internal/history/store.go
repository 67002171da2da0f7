// Package history keeps the per-session list of completed generations.
package history

import (
	"context"
	"time"

	"videostudio/internal/domain"
)

// ErrNotFound is returned by Get when the session has no record with the id.
var ErrNotFound = domain.ErrNotFound

// DefaultListLimit applies when List is called with a non-positive limit.
const DefaultListLimit = 50

// Store is a session-scoped, append-only record list. Implementations are
// safe for concurrent use and return records newest first.
type Store interface {
	Append(ctx context.Context, sessionID string, rec domain.GenerationRecord) error
	List(ctx context.Context, sessionID string, limit int) ([]domain.GenerationRecord, error)
	Get(ctx context.Context, sessionID, id string) (domain.GenerationRecord, error)
	Clear(ctx context.Context, sessionID string) error
}

// Sweeper is implemented by stores that expire idle sessions on demand
// rather than natively.
type Sweeper interface {
	Sweep(ctx context.Context, idleBefore time.Time) (int64, error)
}

// Pinger is implemented by stores backed by an external service.
type Pinger interface {
	Ping(ctx context.Context) error
}

func clampLimit(limit, ceiling int) int {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if ceiling > 0 && limit > ceiling {
		limit = ceiling
	}
	return limit
}
