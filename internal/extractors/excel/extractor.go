// Package excel extracts cell text from Microsoft Excel workbooks.
// XLSX is read with excelize; legacy XLS with the extrame/xls reader.
package excel

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles Excel workbooks.
type Extractor struct{}

// New creates a new Excel extractor.
func New() *Extractor {
	return &Extractor{}
}

// FileTypes returns the format tags this extractor handles.
func (e *Extractor) FileTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypeXLSX, domain.FileTypeXLS}
}

// Extract concatenates cell text sheet by sheet, row-major,
// space-joined within a row. Sheet count lands in metadata.
func (e *Extractor) Extract(_ context.Context, path string, content []byte) (extraction *driven.Extraction, err error) {
	defer func() {
		if r := recover(); r != nil {
			extraction = nil
			err = &domain.ExtractionError{Path: path, Err: fmt.Errorf("workbook parse: %v", r)}
		}
	}()

	if domain.FileTypeFromPath(path) == domain.FileTypeXLS {
		return extractXLS(path, content)
	}
	return extractXLSX(path, content)
}

// extractXLSX reads a modern workbook via excelize.
func extractXLSX(path string, content []byte) (*driven.Extraction, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, &domain.ExtractionError{Path: path, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	var lines []string
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, &domain.ExtractionError{Path: path, Err: err}
		}
		for _, row := range rows {
			if line := joinCells(row); line != "" {
				lines = append(lines, line)
			}
		}
	}

	return &driven.Extraction{
		Text:     strings.Join(lines, "\n"),
		Metadata: map[string]any{"sheets": len(sheets)},
	}, nil
}

// extractXLS reads a legacy workbook via extrame/xls.
func extractXLS(path string, content []byte) (extraction *driven.Extraction, err error) {
	// The xls reader panics on some malformed workbooks that pass
	// OpenReader.
	defer func() {
		if r := recover(); r != nil {
			extraction = nil
			err = &domain.ExtractionError{Path: path, Err: fmt.Errorf("xls parse: %v", r)}
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, &domain.ExtractionError{Path: path, Err: err}
	}

	sheetCount := wb.NumSheets()
	var lines []string
	for i := 0; i < sheetCount; i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				continue
			}
			var cells []string
			for c := row.FirstCol(); c <= row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			if line := joinCells(cells); line != "" {
				lines = append(lines, line)
			}
		}
	}

	return &driven.Extraction{
		Text:     strings.Join(lines, "\n"),
		Metadata: map[string]any{"sheets": sheetCount},
	}, nil
}

// joinCells space-joins the non-empty cells of one row.
func joinCells(row []string) string {
	var cells []string
	for _, cell := range row {
		if cell = strings.TrimSpace(cell); cell != "" {
			cells = append(cells, cell)
		}
	}
	return strings.Join(cells, " ")
}
