package driven

import (
	"context"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
)

// ItemOutcome is the per-document result of one bulk submission,
// positionally aligned with the submitted batch.
type ItemOutcome struct {
	// DocID is the derived store id.
	DocID string

	// Path is the document's file path, for reporting.
	Path string

	// Err is nil when the document was acknowledged. Otherwise it is
	// a *domain.StoreItemError describing the rejection.
	Err error
}

// DocumentStore is the gateway to the external search store.
// Backed by Elasticsearch.
type DocumentStore interface {
	// EnsureIndex creates the target index if missing. Creating an
	// index that already exists is not an error.
	EnsureIndex(ctx context.Context) error

	// BulkIndex submits one batch in a single bulk call. Each
	// document is written under a stable id derived from its file
	// path so re-submission overwrites instead of duplicating.
	// A non-nil error is transport-level (*domain.TransportError) and
	// means no per-item outcomes are available; per-document
	// rejections come back inside the outcomes instead.
	BulkIndex(ctx context.Context, docs []domain.Document) ([]ItemOutcome, error)

	// Delete removes the document stored for a path. Deleting an
	// unknown path is not an error.
	Delete(ctx context.Context, path string) error

	// Search runs a query and returns ranked results.
	Search(ctx context.Context, q domain.Query) ([]domain.SearchResult, error)

	// Close releases resources.
	Close() error
}
