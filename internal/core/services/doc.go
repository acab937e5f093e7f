// Package services implements the core use cases: the ingestion
// pipeline (discovery, extraction, document building, batched bulk
// indexing with retries) and query translation for search.
package services
