package driving

import (
	"context"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
)

// SearchService answers queries against the store.
type SearchService interface {
	// Search validates the query, applies defaults and returns
	// ranked results.
	Search(ctx context.Context, q domain.Query) ([]domain.SearchResult, error)
}
