// Package journal persists the warnings of each migration run so they can be
// reviewed after the run.
package journal

import (
	"context"
	"time"

	"git.home.luguber.info/inful/wikimigrate/internal/page"
)

// Entry is a journaled warning.
type Entry struct {
	ID         int64
	RunID      string
	RecordedAt time.Time
	page.Warning
}

// Store records warnings per run.
type Store interface {
	// Append records warnings under runID. An empty slice is a no-op.
	Append(ctx context.Context, runID string, warnings []page.Warning) error

	// ByRun returns the warnings of runID in the order they were appended.
	ByRun(ctx context.Context, runID string) ([]Entry, error)

	// CountByKind returns the number of warnings of each kind recorded for runID.
	CountByKind(ctx context.Context, runID string) (map[page.WarningKind]int, error)

	Close() error
}
