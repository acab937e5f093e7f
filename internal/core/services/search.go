package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driven"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driving"
	"github.com/docdex-labs/docdex-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService translates query specifications into store queries.
type SearchService struct {
	store driven.DocumentStore
}

// NewSearchService creates a new search service.
func NewSearchService(store driven.DocumentStore) *SearchService {
	return &SearchService{store: store}
}

// Search validates the query, applies defaults and delegates to the
// store.
func (s *SearchService) Search(ctx context.Context, q domain.Query) ([]domain.SearchResult, error) {
	q.Text = strings.TrimSpace(q.Text)
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	q = q.WithDefaults()

	logger.Debug("Search: text=%q type=%q sort=%s/%s limit=%d",
		q.Text, q.FileType, q.SortBy, q.SortOrder, q.Limit)

	results, err := s.store.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	logger.Debug("Search returned %d results", len(results))
	return results, nil
}
