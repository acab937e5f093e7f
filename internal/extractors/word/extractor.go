// Package word extracts text from Microsoft Word documents.
// DOCX is parsed directly as a ZIP of WordprocessingML; legacy DOC
// gets a best-effort text salvage from the OLE container.
package word

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"unicode"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles Word documents.
type Extractor struct{}

// New creates a new Word extractor.
func New() *Extractor {
	return &Extractor{}
}

// FileTypes returns the format tags this extractor handles.
func (e *Extractor) FileTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypeDOCX, domain.FileTypeDOC}
}

// Extract converts Word bytes into paragraph text. Paragraph
// boundaries are preserved as newlines.
func (e *Extractor) Extract(_ context.Context, path string, content []byte) (*driven.Extraction, error) {
	if domain.FileTypeFromPath(path) == domain.FileTypeDOC {
		return extractLegacyDOC(path, content)
	}
	return extractDOCX(path, content)
}

// extractDOCX opens the document as a ZIP archive and pulls paragraph
// runs out of word/document.xml.
func extractDOCX(path string, content []byte) (*driven.Extraction, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &domain.ExtractionError{Path: path, Err: err}
	}

	text, paragraphs, err := extractDocumentText(reader)
	if err != nil {
		return nil, &domain.ExtractionError{Path: path, Err: err}
	}

	meta := map[string]any{"paragraphs": paragraphs}
	if title := extractCoreTitle(reader); title != "" {
		meta["title"] = title
	}

	return &driven.Extraction{Text: text, Metadata: meta}, nil
}

// documentXML mirrors the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// extractDocumentText reads word/document.xml and concatenates run
// text in document order, one line per paragraph.
func extractDocumentText(reader *zip.Reader) (string, int, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", 0, err
		}

		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", 0, err
		}

		var doc documentXML
		if err := xml.Unmarshal(raw, &doc); err != nil {
			return "", 0, err
		}

		var result strings.Builder
		for i, para := range doc.Body.Paragraphs {
			if i > 0 {
				result.WriteString("\n")
			}
			for _, r := range para.Runs {
				for _, t := range r.Text {
					result.WriteString(t.Content)
				}
			}
		}
		return result.String(), len(doc.Body.Paragraphs), nil
	}
	return "", 0, errors.New("word/document.xml missing")
}

// coreXML mirrors the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// extractCoreTitle reads the document title from docProps/core.xml.
func extractCoreTitle(reader *zip.Reader) string {
	for _, file := range reader.File {
		if file.Name != "docProps/core.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return ""
		}

		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return ""
		}

		var core coreXML
		if err := xml.Unmarshal(raw, &core); err == nil {
			return strings.TrimSpace(core.Title)
		}
		return ""
	}
	return ""
}

// oleMagic is the compound-file signature every legacy DOC starts with.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// extractLegacyDOC salvages printable text runs from the OLE
// container. The binary Word format is not fully parsed; the result
// is flagged as partial in metadata.
func extractLegacyDOC(path string, content []byte) (*driven.Extraction, error) {
	if !bytes.HasPrefix(content, oleMagic) {
		return nil, &domain.ExtractionError{Path: path, Err: errors.New("not an OLE compound file")}
	}

	text := salvagePrintable(content)
	return &driven.Extraction{
		Text: text,
		Metadata: map[string]any{
			"partial": true,
		},
	}, nil
}

// minRunLen filters out incidental printable bytes in binary sections.
const minRunLen = 4

// salvagePrintable collects printable character runs, trying both
// single-byte and UTF-16LE interpretations of the stream.
func salvagePrintable(content []byte) string {
	var runs []string

	collect := func(decoded []rune) {
		var run []rune
		for _, r := range decoded {
			if r != unicode.ReplacementChar && (unicode.IsPrint(r) || r == '\n') {
				run = append(run, r)
				continue
			}
			if len(run) >= minRunLen {
				runs = append(runs, string(run))
			}
			run = run[:0]
		}
		if len(run) >= minRunLen {
			runs = append(runs, string(run))
		}
	}

	// Single-byte pass catches ASCII-stored text.
	collect([]rune(string(content)))

	// UTF-16LE pass catches Unicode-stored text.
	var wide []rune
	for i := 0; i+1 < len(content); i += 2 {
		wide = append(wide, rune(uint16(content[i])|uint16(content[i+1])<<8))
	}
	collect(wide)

	return strings.Join(runs, "\n")
}
