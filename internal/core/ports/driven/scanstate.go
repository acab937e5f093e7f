package driven

import (
	"context"
	"time"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
)

// ScanMark is the per-path high-water mark used by incremental
// indexing: a path whose current mtime and size both match its mark
// is skipped as unchanged.
type ScanMark struct {
	Path       string
	ModifiedAt time.Time
	Size       int64
	IndexedAt  time.Time
}

// MarkFor builds the mark recorded after a file is acknowledged.
func MarkFor(ref domain.FileRef, at time.Time) ScanMark {
	return ScanMark{
		Path:       ref.Path,
		ModifiedAt: ref.ModTime,
		Size:       ref.Size,
		IndexedAt:  at,
	}
}

// Matches reports whether a discovered file is unchanged since the
// mark was recorded.
func (m ScanMark) Matches(ref domain.FileRef) bool {
	return m.ModifiedAt.Equal(ref.ModTime) && m.Size == ref.Size
}

// ScanStateStore persists scan marks between runs.
// Backed by SQLite.
type ScanStateStore interface {
	// Get retrieves the mark for a path.
	// Returns nil and no error when no mark exists.
	Get(ctx context.Context, path string) (*ScanMark, error)

	// Save stores or replaces the mark for a path.
	Save(ctx context.Context, mark ScanMark) error

	// Delete removes the mark for a path.
	Delete(ctx context.Context, path string) error

	// Close releases resources.
	Close() error
}
