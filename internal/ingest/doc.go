// Package ingest discovers media files and imports them into the
// catalog. A scan walks the media directory, skips paths the store
// already knows, and creates asset records with a content-derived
// slug, a stamp taken from the file's modification time, derived
// datetime tags, and a perceptual hash computed in a bounded worker
// pool. Scans repeat on a configurable interval.
package ingest
