package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driven"
)

// stubExtractor claims a fixed set of format tags.
type stubExtractor struct {
	types []domain.FileType
}

func (s stubExtractor) FileTypes() []domain.FileType { return s.types }
func (s stubExtractor) Extract(_ context.Context, _ string, _ []byte) (*driven.Extraction, error) {
	return &driven.Extraction{}, nil
}

func TestNewRegistry(t *testing.T) {
	t.Run("maps each extractor to its tags", func(t *testing.T) {
		csvStub := stubExtractor{types: []domain.FileType{domain.FileTypeCSV}}
		wordStub := stubExtractor{types: []domain.FileType{domain.FileTypeDOCX, domain.FileTypeDOC}}

		registry := NewRegistry(csvStub, wordStub)

		e, ok := registry.ForType(domain.FileTypeCSV)
		require.True(t, ok)
		assert.Equal(t, csvStub, e)

		e, ok = registry.ForType(domain.FileTypeDOC)
		require.True(t, ok)
		assert.Equal(t, wordStub, e)
	})

	t.Run("unknown tag returns false", func(t *testing.T) {
		registry := NewRegistry()

		_, ok := registry.ForType(domain.FileTypePDF)

		assert.False(t, ok)
	})

	t.Run("later extractor wins a contested tag", func(t *testing.T) {
		first := stubExtractor{types: []domain.FileType{domain.FileTypeCSV}}
		second := stubExtractor{types: []domain.FileType{domain.FileTypeCSV}}

		registry := NewRegistry(first, second)

		e, ok := registry.ForType(domain.FileTypeCSV)
		require.True(t, ok)
		assert.Equal(t, second, e)
	})
}

func TestNewDefaultRegistry(t *testing.T) {
	t.Run("covers every supported format", func(t *testing.T) {
		registry := NewDefaultRegistry()

		for _, ft := range domain.AllFileTypes {
			_, ok := registry.ForType(ft)
			assert.True(t, ok, "missing extractor for %s", ft)
		}
	})

	t.Run("unknown tag is not covered", func(t *testing.T) {
		registry := NewDefaultRegistry()

		_, ok := registry.ForType(domain.FileTypeUnknown)

		assert.False(t, ok)
	})

	t.Run("types lists all registered tags", func(t *testing.T) {
		registry := NewDefaultRegistry()

		assert.Len(t, registry.Types(), len(domain.AllFileTypes))
	})
}
