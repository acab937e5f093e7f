package domain

import "time"

// FailureStage names the pipeline stage a failure occurred in. Each
// document moves one way through discovery, extraction and store
// submission; once counted as failed it is never retried, so every
// path lands in exactly one Report counter.
type FailureStage string

const (
	StageDiscovery  FailureStage = "discovery"
	StageExtraction FailureStage = "extraction"
	StageStore      FailureStage = "store"
)

// Failure records one path that did not make it into the store.
type Failure struct {
	Path   string       `json:"path"`
	Stage  FailureStage `json:"stage"`
	Reason string       `json:"reason"`
}

// Report summarises one indexing run.
type Report struct {
	// RunID identifies the run in logs.
	RunID string `json:"run_id"`

	// Discovered counts candidate files yielded by the walker.
	Discovered int `json:"discovered"`

	// Unchanged counts files skipped by the incremental check.
	Unchanged int `json:"unchanged"`

	// Skipped counts files dropped before submission (unreadable
	// paths, extraction failures).
	Skipped int `json:"skipped"`

	// Indexed counts documents acknowledged by the store.
	Indexed int `json:"indexed"`

	// Failed counts documents rejected by the store or lost with
	// their batch after retry exhaustion.
	Failed int `json:"failed"`

	// Failures lists every skipped or failed path with its reason.
	Failures []Failure `json:"failures,omitempty"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
