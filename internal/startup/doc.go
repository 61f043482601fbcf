// Package startup handles configuration loading and lifecycle logging.
//
// All configuration comes from environment variables via [LoadConfig]:
//
//   - MEDIA_DIR: media directory to scan (default: /media)
//   - CACHE_DIR: cache directory for rendered thumbnails (default: /cache)
//   - DATABASE_DIR: catalog database directory (default: /database)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics port (default: 9090)
//   - METRICS_ENABLED: enable the metrics server (default: true)
//   - SCAN_INTERVAL: media re-scan interval as a Go duration (default: 30m)
//   - HASH_FLAVOR: perceptual hash flavor (default: dhash-8)
//   - SIMILAR_MIN_OVERLAP: minimum tag-overlap score (default: 0.05)
//   - SIMILAR_MAX_DISTANCE: maximum hash distance (default: 8)
//   - VIPS_ENABLED: use libvips for decoding when present (default: true)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//
// The database directory is required and must be writable; the cache
// directory is optional and gates the thumbnail feature. The media
// directory is checked but never created, since it is expected to be
// a mount.
package startup
