package word

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(documentXML, coreXML string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	contentTypes, _ := w.Create("[Content_Types].xml")
	contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))

	if documentXML != "" {
		doc, _ := w.Create("word/document.xml")
		doc.Write([]byte(documentXML))
	}

	if coreXML != "" {
		core, _ := w.Create("docProps/core.xml")
		core.Write([]byte(coreXML))
	}

	w.Close()
	return buf.Bytes()
}

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
}

func TestFileTypes(t *testing.T) {
	extractor := New()
	types := extractor.FileTypes()

	assert.Contains(t, types, domain.FileTypeDOCX)
	assert.Contains(t, types, domain.FileTypeDOC)
	assert.Len(t, types, 2)
}

func TestExtract_DOCX(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	t.Run("extracts paragraph text", func(t *testing.T) {
		docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
<w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>
</w:body>
</w:document>`

		content := createTestDOCX(docXML, "")

		result, err := extractor.Extract(ctx, "/docs/report.docx", content)
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, "First paragraph\nSecond paragraph", result.Text)
		assert.Equal(t, 2, result.Metadata["paragraphs"])
	})

	t.Run("extracts title from core properties", func(t *testing.T) {
		docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>Body</w:t></w:r></w:p></w:body>
</w:document>`
		coreXML := `<?xml version="1.0" encoding="UTF-8"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title>Quarterly Report</dc:title>
</cp:coreProperties>`

		content := createTestDOCX(docXML, coreXML)

		result, err := extractor.Extract(ctx, "/docs/report.docx", content)
		require.NoError(t, err)

		assert.Equal(t, "Quarterly Report", result.Metadata["title"])
	})

	t.Run("empty body yields empty text", func(t *testing.T) {
		docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body></w:body>
</w:document>`

		content := createTestDOCX(docXML, "")

		result, err := extractor.Extract(ctx, "/docs/empty.docx", content)
		require.NoError(t, err)

		assert.Empty(t, result.Text)
		assert.Equal(t, 0, result.Metadata["paragraphs"])
	})

	t.Run("invalid zip returns extraction error", func(t *testing.T) {
		result, err := extractor.Extract(ctx, "/docs/broken.docx", []byte("not a zip file"))

		require.Error(t, err)
		assert.Nil(t, result)
		var extractErr *domain.ExtractionError
		require.ErrorAs(t, err, &extractErr)
		assert.Equal(t, "/docs/broken.docx", extractErr.Path)
	})

	t.Run("missing document.xml returns extraction error", func(t *testing.T) {
		content := createTestDOCX("", "")

		result, err := extractor.Extract(ctx, "/docs/hollow.docx", content)

		require.Error(t, err)
		assert.Nil(t, result)
		var extractErr *domain.ExtractionError
		assert.ErrorAs(t, err, &extractErr)
	})
}

func TestExtract_LegacyDOC(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	t.Run("salvages printable text and flags partial", func(t *testing.T) {
		content := append([]byte{}, oleMagic...)
		content = append(content, 0x00, 0x01, 0x02)
		content = append(content, []byte("Some recoverable document text")...)
		content = append(content, 0x03, 0x04)

		result, err := extractor.Extract(ctx, "/docs/old.doc", content)
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Contains(t, result.Text, "Some recoverable document text")
		assert.Equal(t, true, result.Metadata["partial"])
	})

	t.Run("short runs are dropped", func(t *testing.T) {
		content := append([]byte{}, oleMagic...)
		content = append(content, 0x00)
		content = append(content, []byte("ab")...)
		content = append(content, 0x00)

		result, err := extractor.Extract(ctx, "/docs/noise.doc", content)
		require.NoError(t, err)

		assert.NotContains(t, result.Text, "ab")
	})

	t.Run("non-OLE content returns extraction error", func(t *testing.T) {
		result, err := extractor.Extract(ctx, "/docs/fake.doc", []byte("plain text pretending"))

		require.Error(t, err)
		assert.Nil(t, result)
		var extractErr *domain.ExtractionError
		assert.ErrorAs(t, err, &extractErr)
	})
}
