// Package elasticsearch implements the document store gateway over
// the Elasticsearch 8.x HTTP API.
package elasticsearch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driven"
	"github.com/docdex-labs/docdex-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Config carries the store connection settings.
type Config struct {
	// Addresses lists the cluster endpoints.
	Addresses []string

	// Index is the target index name.
	Index string

	// Username and Password enable basic auth when set.
	Username string
	Password string
}

// Store is the Elasticsearch-backed document store. The underlying
// client pools connections and is safe for concurrent use.
type Store struct {
	client *elasticsearch.Client
	index  string
}

// NewStore creates a store gateway. No network call is made until the
// first operation.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Index == "" {
		return nil, fmt.Errorf("index name required: %w", domain.ErrInvalidInput)
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &Store{client: client, index: cfg.Index}, nil
}

// DocumentID derives the stable store id for a path: hex SHA-256 of
// the cleaned path. Re-submitting the same path overwrites the prior
// record instead of creating a duplicate.
func DocumentID(path string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(path)))
	return hex.EncodeToString(sum[:])
}

// indexMapping types the document fields so type filters, size ranges
// and field sorts work without dynamic-mapping surprises.
const indexMapping = `{
  "mappings": {
    "properties": {
      "file_name":   {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "file_path":   {"type": "keyword"},
      "file_type":   {"type": "keyword"},
      "file_size":   {"type": "long"},
      "content":     {"type": "text"},
      "created_at":  {"type": "date"},
      "modified_at": {"type": "date"},
      "metadata":    {"type": "object", "enabled": true}
    }
  }
}`

// EnsureIndex creates the index with its mapping. An index that
// already exists is success, not an error.
func (s *Store) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists(
		[]string{s.index},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return &domain.TransportError{Op: "index exists", Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusOK {
		logger.Debug("Index %s already exists", s.index)
		return nil
	}

	createRes, err := s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return &domain.TransportError{Op: "index create", Err: err}
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		// Lost the race against a concurrent creator.
		if strings.Contains(readBody(createRes.Body), "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("create index %s: %s", s.index, createRes.Status())
	}

	logger.Info("Created index %s", s.index)
	return nil
}

// Delete removes the record stored for a path. Unknown paths are not
// an error.
func (s *Store) Delete(ctx context.Context, path string) error {
	res, err := s.client.Delete(
		s.index,
		DocumentID(path),
		s.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return &domain.TransportError{Op: "delete", Err: err}
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete %s: %s", path, res.Status())
	}
	return nil
}

// Close releases resources. The HTTP client needs no teardown.
func (s *Store) Close() error {
	return nil
}

// readBody drains a response body for error inspection.
func readBody(r io.Reader) string {
	data, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	return string(data)
}

// decode unmarshals a response body into v.
func decode(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}
