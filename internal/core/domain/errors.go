package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file format with no extractor.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrIndexingInProgress indicates an indexing run is already active.
	ErrIndexingInProgress = errors.New("indexing in progress")

	// ErrStoreUnavailable indicates the search store could not be
	// reached within the configured retry budget.
	ErrStoreUnavailable = errors.New("search store unavailable")
)

// AccessError reports a path the walker could not read. It is
// recorded per path and never aborts the remaining traversal.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("access %s: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// ExtractionError reports a file whose format-specific extraction
// failed (corrupt file, unsupported encoding). The caller converts it
// into a skip-with-log; it never propagates to abort the run.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// TransportError reports a store call that failed at the transport
// level (connection refused, timeout). Batch submissions hitting a
// TransportError are retried with backoff.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StoreItemError reports a single document rejected by the store
// within an otherwise successful bulk submission (mapping conflict,
// malformed id). Item errors are reported once and never retried.
type StoreItemError struct {
	DocID  string
	Status int
	Reason string
}

func (e *StoreItemError) Error() string {
	return fmt.Sprintf("store rejected %s (status %d): %s", e.DocID, e.Status, e.Reason)
}
