// Package pdf extracts per-page plain text from PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// FileTypes returns the format tags this extractor handles.
func (e *Extractor) FileTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypePDF}
}

// Extract concatenates per-page text in page order and records the
// page count in metadata. A page with no extractable text (scanned
// images, unsupported encodings) contributes an empty string, not a
// failure.
func (e *Extractor) Extract(_ context.Context, path string, content []byte) (extraction *driven.Extraction, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			extraction = nil
			err = &domain.ExtractionError{Path: path, Err: fmt.Errorf("pdf parse: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &domain.ExtractionError{Path: path, Err: err}
	}

	pages := reader.NumPage()
	var parts []string
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Undecodable page: contributes nothing, run continues.
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}

	return &driven.Extraction{
		Text:     strings.Join(parts, "\n"),
		Metadata: map[string]any{"pages": pages},
	}, nil
}
