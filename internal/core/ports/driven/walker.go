package driven

import (
	"context"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
)

// Walker discovers candidate files under a configured root.
// The filesystem connector implements this interface.
type Walker interface {
	// Type returns the walker type identifier.
	Type() string

	// Validate checks the root exists and is readable.
	// Returns nil if ready to scan, an error describing the problem
	// otherwise.
	Validate(ctx context.Context) error

	// Scan yields every supported file under the root, recursively.
	// The sequence is lazy, finite and restartable: each call starts
	// a fresh traversal. Unreadable subdirectories are reported as
	// *domain.AccessError on the error channel and do not stop the
	// traversal. Both channels close when the scan finishes or the
	// context is cancelled.
	Scan(ctx context.Context) (<-chan domain.FileRef, <-chan error)

	// Watch listens for changes under the root and emits events until
	// the context is cancelled.
	Watch(ctx context.Context) (<-chan domain.FileEvent, error)

	// Close releases resources.
	Close() error
}
