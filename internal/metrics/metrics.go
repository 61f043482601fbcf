package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Store metrics
var (
	StoreQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_store_queries_total",
			Help: "Total number of store queries",
		},
		[]string{"operation", "status"},
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_store_query_duration_seconds",
			Help:    "Store query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	StoreConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_store_connections_open",
			Help: "Number of open store connections",
		},
	)

	StoreAssets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_store_assets",
			Help: "Number of active assets in the store",
		},
	)
)

// Ingest metrics
var (
	IngestRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_ingest_runs_total",
			Help: "Total number of ingest scans",
		},
	)

	IngestLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_ingest_last_run_timestamp",
			Help: "Timestamp of the last ingest scan",
		},
	)

	IngestAssetsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_ingest_assets_created_total",
			Help: "Total number of assets created by ingest",
		},
	)

	IngestErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_ingest_errors_total",
			Help: "Total number of ingest errors",
		},
	)

	IngestIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_ingest_running",
			Help: "Whether an ingest scan is currently running (1 = running, 0 = idle)",
		},
	)
)

// Hashing metrics
var (
	HashComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_hash_computations_total",
			Help: "Total number of perceptual hash computations",
		},
		[]string{"flavor", "status"},
	)

	HashComputationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_hash_computation_duration_seconds",
			Help:    "Perceptual hash computation duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"flavor"},
	)
)

// Similarity metrics
var (
	SimilarityQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_similarity_queries_total",
			Help: "Total number of similarity queries",
		},
		[]string{"relation", "status"}, // relation: "tags" or "content"
	)

	SimilarityQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_similarity_query_duration_seconds",
			Help:    "Similarity query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		},
		[]string{"relation"},
	)

	SimilarityResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_similarity_results",
			Help:    "Number of results returned per similarity query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"relation"},
	)
)

// Retry metrics
var (
	RetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_retry_attempts_total",
			Help: "Total number of retry attempts by operation",
		},
		[]string{"operation"},
	)

	RetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_retry_success_total",
			Help: "Total number of operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	RetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_retry_failures_total",
			Help: "Total number of operations that exhausted their retries",
		},
		[]string{"operation"},
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_thumbnail_generations_total",
			Help: "Total number of thumbnail generations",
		},
		[]string{"size", "status"},
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"size"},
	)
)

// Memory backpressure metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_memory_usage_ratio",
			Help: "Heap usage as a fraction of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_memory_paused",
			Help: "Whether ingest is paused for memory pressure (1 = paused)",
		},
	)

	MemoryForcedGCs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_memory_forced_gcs_total",
			Help: "Total garbage collections forced by memory pressure",
		},
	)
)
