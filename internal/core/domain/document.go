package domain

import "time"

// Document is the unit of indexing: one source file after extraction
// and normalisation. Documents are immutable once built; re-indexing a
// path produces a new Document that supersedes the old record in the
// store via the derived id.
type Document struct {
	// FileName is the last path segment.
	FileName string `json:"file_name"`

	// FilePath is the cleaned absolute path. It is the identity key:
	// the store id is derived from it so re-indexing overwrites.
	FilePath string `json:"file_path"`

	// FileType is the supported format tag derived from the extension.
	FileType FileType `json:"file_type"`

	// FileSize is the size in bytes.
	FileSize int64 `json:"file_size"`

	// Content is the extracted plain text after normalisation.
	// May be empty when extraction yields nothing, never omitted.
	Content string `json:"content"`

	// CreatedAt and ModifiedAt come from filesystem metadata.
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`

	// Metadata holds format-specific keys (pages, sheets, rows...).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// FileRef is the discovery walker's output: a candidate file with its
// filesystem metadata and no content. Workers read the bytes later.
type FileRef struct {
	// Path is the cleaned absolute path.
	Path string

	// Type is the format tag derived from the extension.
	Type FileType

	// Size is the size in bytes at discovery time.
	Size int64

	// ModTime is the filesystem modification time.
	ModTime time.Time
}

// ChangeType is the kind of filesystem change seen in watch mode.
type ChangeType int

const (
	// ChangeUpserted indicates a created or modified file.
	ChangeUpserted ChangeType = iota

	// ChangeDeleted indicates a removed file.
	ChangeDeleted
)

// FileEvent is a change notification from the walker's watch mode.
type FileEvent struct {
	// Type is the kind of change.
	Type ChangeType

	// Ref is the affected file. For deletions only Ref.Path is set.
	Ref FileRef
}
