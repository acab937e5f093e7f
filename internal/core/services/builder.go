package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driven"
)

// DocumentBuilder merges extraction output with filesystem metadata
// into a complete, normalised Document.
type DocumentBuilder struct {
	pipeline driven.ContentPipeline
}

// NewDocumentBuilder creates a builder using the given content
// pipeline for text normalisation.
func NewDocumentBuilder(pipeline driven.ContentPipeline) *DocumentBuilder {
	return &DocumentBuilder{pipeline: pipeline}
}

// Build assembles the canonical Document for a discovered file.
// Content is normalised before the Document is considered complete.
// CreatedAt mirrors ModTime: file birth time is not portably
// available, and the store only needs a stable creation ordering.
func (b *DocumentBuilder) Build(ctx context.Context, ref domain.FileRef, ext *driven.Extraction) (*domain.Document, error) {
	if ext == nil {
		return nil, domain.ErrInvalidInput
	}

	content, err := b.pipeline.Process(ctx, ext.Text)
	if err != nil {
		return nil, fmt.Errorf("normalise content: %w", err)
	}

	return &domain.Document{
		FileName:   filepath.Base(ref.Path),
		FilePath:   ref.Path,
		FileType:   ref.Type,
		FileSize:   ref.Size,
		Content:    content,
		CreatedAt:  ref.ModTime,
		ModifiedAt: ref.ModTime,
		Metadata:   ext.Metadata,
	}, nil
}
