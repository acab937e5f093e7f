package driven

import (
	"context"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
)

// Extraction is the output of a format-specific extractor.
type Extraction struct {
	// Text is the extracted plain text before normalisation.
	Text string

	// Metadata holds format-specific keys (pages, sheets, rows...).
	Metadata map[string]any
}

// Extractor converts one file format's raw bytes into plain text.
// Failures are reported as *domain.ExtractionError and converted into
// a skip by the caller, never propagated to abort the run.
type Extractor interface {
	// FileTypes returns the format tags this extractor handles.
	FileTypes() []domain.FileType

	// Extract parses the raw bytes and returns text plus metadata.
	Extract(ctx context.Context, path string, content []byte) (*Extraction, error)
}

// ExtractorRegistry selects an extractor by format tag.
type ExtractorRegistry interface {
	// ForType returns the extractor for a tag, or false when the
	// format is unsupported.
	ForType(t domain.FileType) (Extractor, bool)
}

// ContentPipeline normalises extracted text before a document is
// considered complete.
type ContentPipeline interface {
	// Process runs the text through every processor in order.
	// The full pipeline is idempotent.
	Process(ctx context.Context, text string) (string, error)
}
