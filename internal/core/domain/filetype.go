package domain

import (
	"path/filepath"
	"strings"
)

// FileType tags the supported document formats. The tag is derived
// from the file extension with a pure, case-insensitive mapping;
// anything else maps to FileTypeUnknown and is skipped upstream.
type FileType string

const (
	FileTypeDOCX FileType = "docx"
	FileTypeDOC  FileType = "doc"
	FileTypeXLSX FileType = "xlsx"
	FileTypeXLS  FileType = "xls"
	FileTypePDF  FileType = "pdf"
	FileTypeCSV  FileType = "csv"

	// FileTypeUnknown marks unsupported extensions. Never an error:
	// unknown files are filtered out, not rejected.
	FileTypeUnknown FileType = ""
)

// AllFileTypes lists every supported format tag.
var AllFileTypes = []FileType{
	FileTypeDOCX,
	FileTypeDOC,
	FileTypeXLSX,
	FileTypeXLS,
	FileTypePDF,
	FileTypeCSV,
}

// FileTypeFromPath maps a path's extension to its format tag.
func FileTypeFromPath(path string) FileType {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, ft := range AllFileTypes {
		if string(ft) == ext {
			return ft
		}
	}
	return FileTypeUnknown
}

// ParseFileType converts a user-supplied string (e.g. a CLI flag) to a
// format tag. Returns FileTypeUnknown for anything unsupported.
func ParseFileType(s string) FileType {
	return FileTypeFromPath("." + strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
}

// String returns the tag as used in the store's file_type field.
func (t FileType) String() string {
	return string(t)
}

// Supported reports whether the tag names a supported format.
func (t FileType) Supported() bool {
	return t != FileTypeUnknown
}
