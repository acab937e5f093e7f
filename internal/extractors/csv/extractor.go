// Package csv extracts cell text from CSV files.
package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles CSV files.
type Extractor struct{}

// New creates a new CSV extractor.
func New() *Extractor {
	return &Extractor{}
}

// FileTypes returns the format tags this extractor handles.
func (e *Extractor) FileTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypeCSV}
}

// Extract concatenates all cell values row-major, space-joined within
// a row, and records row/column counts in metadata.
func (e *Extractor) Extract(_ context.Context, path string, content []byte) (*driven.Extraction, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	// Ragged rows are data, not errors, for extraction purposes.
	reader.FieldsPerRecord = -1

	var lines []string
	rows, maxCols := 0, 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.ExtractionError{Path: path, Err: err}
		}

		rows++
		if len(record) > maxCols {
			maxCols = len(record)
		}

		var cells []string
		for _, cell := range record {
			if cell = strings.TrimSpace(cell); cell != "" {
				cells = append(cells, cell)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, " "))
		}
	}

	return &driven.Extraction{
		Text: strings.Join(lines, "\n"),
		Metadata: map[string]any{
			"rows":    rows,
			"columns": maxCols,
		},
	}, nil
}
