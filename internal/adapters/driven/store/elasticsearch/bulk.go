package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driven"
)

// bulkResponse mirrors the bulk API response. Items are positionally
// aligned with the request actions.
type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// BulkIndex submits one batch in a single bulk call. Every document
// is written with its derived id, so re-submission overwrites.
// Transport-level failures return an error with no outcomes; item
// rejections come back inside the outcomes.
func (s *Store) BulkIndex(ctx context.Context, docs []domain.Document) ([]driven.ItemOutcome, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	body, err := encodeBulkBody(s.index, docs)
	if err != nil {
		return nil, err
	}

	res, err := s.client.Bulk(
		bytes.NewReader(body),
		s.client.Bulk.WithContext(ctx),
		s.client.Bulk.WithIndex(s.index),
	)
	if err != nil {
		return nil, &domain.TransportError{Op: "bulk", Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, &domain.TransportError{
			Op:  "bulk",
			Err: fmt.Errorf("status %s", res.Status()),
		}
	}

	var parsed bulkResponse
	if err := decode(res.Body, &parsed); err != nil {
		return nil, &domain.TransportError{Op: "bulk decode", Err: err}
	}
	if len(parsed.Items) != len(docs) {
		return nil, &domain.TransportError{
			Op:  "bulk",
			Err: fmt.Errorf("response has %d items for %d documents", len(parsed.Items), len(docs)),
		}
	}

	outcomes := make([]driven.ItemOutcome, len(docs))
	for i, item := range parsed.Items {
		outcome := driven.ItemOutcome{
			DocID: DocumentID(docs[i].FilePath),
			Path:  docs[i].FilePath,
		}
		// Each item is keyed by its action name ("index").
		for _, result := range item {
			if result.Error != nil {
				reason := result.Error.Reason
				if reason == "" {
					reason = result.Error.Type
				}
				outcome.Err = &domain.StoreItemError{
					DocID:  result.ID,
					Status: result.Status,
					Reason: reason,
				}
			}
		}
		outcomes[i] = outcome
	}
	return outcomes, nil
}

// encodeBulkBody builds the NDJSON payload: one index action line
// carrying the derived id, then the document source, per document.
func encodeBulkBody(index string, docs []domain.Document) ([]byte, error) {
	var buf bytes.Buffer
	for _, doc := range docs {
		action := map[string]map[string]string{
			"index": {
				"_index": index,
				"_id":    DocumentID(doc.FilePath),
			},
		}
		actionLine, err := json.Marshal(action)
		if err != nil {
			return nil, fmt.Errorf("marshal action: %w", err)
		}
		sourceLine, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("marshal document %s: %w", doc.FilePath, err)
		}
		buf.Write(actionLine)
		buf.WriteByte('\n')
		buf.Write(sourceLine)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
