// Package postprocessors normalises extracted text before a document
// is considered complete.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/docdex-labs/docdex-cli/internal/core/ports/driven"
)

// Processor transforms extracted text. Every processor must be
// idempotent so the pipeline as a whole is.
type Processor interface {
	// Name identifies the processor in errors.
	Name() string

	// Process transforms the text.
	Process(ctx context.Context, text string) (string, error)
}

// Ensure Pipeline implements the interface.
var _ driven.ContentPipeline = (*Pipeline)(nil)

// Pipeline chains processors and runs them in order.
type Pipeline struct {
	processors []Processor
}

// NewPipeline creates a pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// NewDefaultPipeline builds the standard normalisation chain:
// control-character strip, whitespace collapse with paragraph breaks
// preserved, then Unicode NFC.
func NewDefaultPipeline() *Pipeline {
	return NewPipeline(
		StripControl{},
		CollapseWhitespace{},
		NormaliseUnicode{},
	)
}

// Process runs the text through all processors in order.
func (p *Pipeline) Process(ctx context.Context, text string) (string, error) {
	for _, processor := range p.processors {
		var err error
		text, err = processor.Process(ctx, text)
		if err != nil {
			return "", fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}
	return text, nil
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}
