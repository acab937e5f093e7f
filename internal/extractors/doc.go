// Package extractors provides the per-format text extraction adapters
// and the registry that selects one by file type. Each adapter turns a
// file's raw bytes into plain text plus format-specific metadata;
// extraction failures surface as *domain.ExtractionError and are
// converted into skips by the ingestion pipeline.
package extractors
