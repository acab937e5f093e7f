// Package driving defines the interfaces through which the CLI and
// TUI drive the core: indexing runs and search queries.
package driving
