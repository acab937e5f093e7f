package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
)

// searchResponse mirrors the pieces of the search API response we
// consume.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score     *float64        `json:"_score"`
			Source    domain.Document `json:"_source"`
			Highlight struct {
				Content []string `json:"content"`
			} `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search translates a query specification into the store's query DSL
// and maps raw hits back to ranked results.
func (s *Store) Search(ctx context.Context, q domain.Query) ([]domain.SearchResult, error) {
	body, err := json.Marshal(buildSearchBody(q))
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, &domain.TransportError{Op: "search", Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search: %s: %s", res.Status(), readBody(res.Body))
	}

	var parsed searchResponse
	if err := decode(res.Body, &parsed); err != nil {
		return nil, &domain.TransportError{Op: "search decode", Err: err}
	}

	results := make([]domain.SearchResult, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		doc := hit.Source
		// Summaries only: snippets carry the matched text.
		doc.Content = ""
		results = append(results, domain.SearchResult{
			Document:   doc,
			Score:      hit.Score,
			Highlights: hit.Highlight.Content,
		})
	}
	return results, nil
}

// buildSearchBody assembles the query DSL for a query specification.
func buildSearchBody(q domain.Query) map[string]any {
	boolQuery := map[string]any{}

	if q.Text != "" {
		boolQuery["must"] = []any{map[string]any{
			"multi_match": map[string]any{
				"query":  q.Text,
				"fields": []string{"content", "file_name^2"},
			},
		}}
	} else {
		boolQuery["must"] = []any{map[string]any{"match_all": map[string]any{}}}
	}

	var filters []any
	if q.FileType.Supported() {
		filters = append(filters, map[string]any{
			"term": map[string]any{"file_type": q.FileType.String()},
		})
	}
	if q.MinSize != nil || q.MaxSize != nil {
		bounds := map[string]any{}
		if q.MinSize != nil {
			bounds["gte"] = *q.MinSize
		}
		if q.MaxSize != nil {
			bounds["lte"] = *q.MaxSize
		}
		filters = append(filters, map[string]any{
			"range": map[string]any{"file_size": bounds},
		})
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}

	body := map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"size":  q.Limit,
		"sort":  buildSort(q),
	}

	if q.Highlight {
		body["highlight"] = map[string]any{
			"fields": map[string]any{
				"content": map[string]any{
					"fragment_size":       150,
					"number_of_fragments": 3,
				},
			},
		}
	}
	return body
}

// buildSort maps the query's sort key to a store sort clause.
func buildSort(q domain.Query) []any {
	order := string(q.SortOrder)

	var field string
	switch q.SortBy {
	case domain.SortBySize:
		field = "file_size"
	case domain.SortByName:
		field = "file_name.keyword"
	case domain.SortByCreatedAt:
		field = "created_at"
	default:
		return []any{map[string]any{"_score": map[string]any{"order": order}}}
	}
	return []any{map[string]any{field: map[string]any{"order": order}}}
}
