// Package metrics provides Prometheus instrumentation for the media catalog.
//
// All metrics are prefixed with "media_catalog_" to avoid naming collisions
// with other applications. Metrics fall into a few categories:
//
//   - HTTP: request counts, durations, and in-flight gauge
//   - Store: query counts and durations by operation, via the
//     per-operation observe pattern in internal/store
//   - Ingest: scan runs, assets ingested, and errors
//   - Hashing: perceptual hash computations and durations
//   - Similarity: similarity query counts by relation (tags/content)
//   - Retry: attempts and outcomes for retried collaborator calls
//
// Call InitializeMetrics once at startup so every expected label
// combination is present from the first scrape.
package metrics
