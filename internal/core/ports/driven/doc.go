// Package driven defines the interfaces the core depends on:
// filesystem discovery, per-format extraction, the search store and
// the scan-state store. Adapters implement these interfaces.
package driven
