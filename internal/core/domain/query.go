package domain

// SortField names the fields a query can be ordered by.
type SortField string

const (
	SortByScore     SortField = "score"
	SortBySize      SortField = "size"
	SortByName      SortField = "name"
	SortByCreatedAt SortField = "created_at"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Query is the search specification translated into a store query.
type Query struct {
	// Text is the full-text query. Empty matches all documents.
	Text string

	// FileType filters to one format when set.
	FileType FileType

	// MinSize and MaxSize bound file_size in bytes when non-nil.
	MinSize *int64
	MaxSize *int64

	// SortBy orders results; defaults to SortByScore.
	SortBy SortField

	// SortOrder defaults to descending.
	SortOrder SortOrder

	// Highlight requests matched-term snippets from the store.
	Highlight bool

	// Limit is the maximum number of results; defaults to 10.
	Limit int
}

// WithDefaults returns a copy with unset fields defaulted.
func (q Query) WithDefaults() Query {
	if q.SortBy == "" {
		q.SortBy = SortByScore
	}
	if q.SortOrder == "" {
		q.SortOrder = SortDesc
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	return q
}

// Validate checks the query for unsupported field values.
func (q Query) Validate() error {
	switch q.SortBy {
	case "", SortByScore, SortBySize, SortByName, SortByCreatedAt:
	default:
		return ErrInvalidInput
	}
	switch q.SortOrder {
	case "", SortAsc, SortDesc:
	default:
		return ErrInvalidInput
	}
	if q.MinSize != nil && *q.MinSize < 0 {
		return ErrInvalidInput
	}
	if q.MinSize != nil && q.MaxSize != nil && *q.MaxSize < *q.MinSize {
		return ErrInvalidInput
	}
	return nil
}

// SearchResult is a single ranked hit from the store.
type SearchResult struct {
	// Document is the matched document. Content is not hydrated;
	// snippets carry the matched text.
	Document Document `json:"document"`

	// Score is the store's relevance score. Nil when results are
	// sorted by a field instead of relevance.
	Score *float64 `json:"score"`

	// Highlights contains snippets around matched terms.
	Highlights []string `json:"highlights,omitempty"`
}
