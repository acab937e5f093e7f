package extractors

import (
	csvx "github.com/docdex-labs/docdex-cli/internal/extractors/csv"
	"github.com/docdex-labs/docdex-cli/internal/extractors/excel"
	"github.com/docdex-labs/docdex-cli/internal/extractors/pdf"
	"github.com/docdex-labs/docdex-cli/internal/extractors/word"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps format tags to extractors. The mapping is pure:
// unknown tags return false rather than an error.
type Registry struct {
	byType map[domain.FileType]driven.Extractor
}

// NewRegistry builds a registry with the given extractors.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byType: make(map[domain.FileType]driven.Extractor)}
	for _, e := range extractors {
		for _, t := range e.FileTypes() {
			r.byType[t] = e
		}
	}
	return r
}

// NewDefaultRegistry registers every built-in extractor.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		word.New(),
		excel.New(),
		pdf.New(),
		csvx.New(),
	)
}

// ForType returns the extractor for a tag, or false when unsupported.
func (r *Registry) ForType(t domain.FileType) (driven.Extractor, bool) {
	e, ok := r.byType[t]
	return e, ok
}

// Types returns the tags with a registered extractor.
func (r *Registry) Types() []domain.FileType {
	types := make([]domain.FileType, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	return types
}
