package driving

import (
	"context"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
)

// IndexOptions configures one indexing run.
type IndexOptions struct {
	// Full forces a rescan of every file, bypassing the incremental
	// unchanged check.
	Full bool
}

// IndexStatus is a point-in-time snapshot of a running index.
type IndexStatus struct {
	Running    bool
	Discovered int
	Unchanged  int
	Skipped    int
	Indexed    int
	Failed     int
}

// Indexer runs the ingestion pipeline.
type Indexer interface {
	// Run walks the input directory, extracts and indexes every
	// supported file, and returns the run report. Individual file or
	// document errors never fail the run; only an unreadable input
	// root or a store unreachable for every batch does.
	Run(ctx context.Context, opts IndexOptions) (*domain.Report, error)

	// Watch keeps indexing filesystem changes until the context is
	// cancelled.
	Watch(ctx context.Context) error

	// Status returns a snapshot of the active run.
	Status() IndexStatus
}
