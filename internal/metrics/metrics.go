package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumina_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lumina_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lumina_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumina_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lumina_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBTransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lumina_db_transaction_duration_seconds",
			Help:    "Database transaction duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"result"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lumina_db_connections_open",
			Help: "Number of open database connections",
		},
	)

	DBSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lumina_db_size_bytes",
			Help: "Size of SQLite database files in bytes",
		},
		[]string{"file"}, // "main", "wal", "shm"
	)

	SnapshotWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumina_snapshot_writes_total",
			Help: "Total number of full catalog snapshot writes",
		},
		[]string{"status"},
	)

	SnapshotBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lumina_snapshot_bytes",
			Help: "Size of the last written snapshot blob by key",
		},
		[]string{"key"},
	)
)

// Insight gateway metrics
var (
	InsightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumina_insight_requests_total",
			Help: "Total number of AI insight gateway requests",
		},
		[]string{"operation", "status"}, // status: success, error, breaker_open, rate_limited
	)

	InsightRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lumina_insight_request_duration_seconds",
			Help:    "AI insight gateway request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"operation"},
	)

	InsightBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lumina_insight_breaker_state",
			Help: "Circuit breaker state of the AI gateway (0 = closed, 1 = half-open, 2 = open)",
		},
	)

	DescriptionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lumina_description_cache_hits_total",
			Help: "Total number of description requests served from the item cache",
		},
	)

	DescriptionCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lumina_description_cache_misses_total",
			Help: "Total number of description requests that reached the gateway",
		},
	)
)

// Import metrics
var (
	ImportFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumina_import_files_total",
			Help: "Total number of files offered for import",
		},
		[]string{"type", "status"}, // status: imported, skipped, error
	)

	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumina_thumbnail_generations_total",
			Help: "Total number of AI thumbnail generations for imported video",
		},
		[]string{"status"}, // success, no_image, frame_error, discarded, error
	)

	FrameSamplesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumina_frame_samples_total",
			Help: "Total number of video frame samples",
		},
		[]string{"status"},
	)

	FrameSampleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lumina_frame_sample_duration_seconds",
			Help:    "Video frame sampling duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	ResourceHandlesOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lumina_resource_handles_open",
			Help: "Number of temporary resource handles currently held",
		},
	)

	ResourceHandleBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lumina_resource_handle_bytes",
			Help: "Total bytes held by temporary resource handles",
		},
	)
)

// Filesystem metrics
var (
	FilesystemRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumina_filesystem_retries_total",
			Help: "Retried resource file operations after stale file handle errors",
		},
		[]string{"operation", "outcome"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumina_filesystem_stale_errors_total",
			Help: "Stale file handle errors seen on resource file operations",
		},
		[]string{"operation"},
	)
)

// Runtime metrics
var (
	GoMemoryLimitBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lumina_go_memory_limit_bytes",
			Help: "Soft memory limit applied at startup (0 when unset)",
		},
	)
)

// Task metrics
var (
	TasksInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lumina_tasks_in_flight",
			Help: "Number of asynchronous tasks currently running",
		},
		[]string{"kind"},
	)

	TasksCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumina_tasks_completed_total",
			Help: "Total number of asynchronous tasks completed",
		},
		[]string{"kind", "status"},
	)
)

// Navigation and session metrics
var (
	NavigationKeysTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumina_navigation_keys_total",
			Help: "Total number of remote keys handled",
		},
		[]string{"key", "section"},
	)

	SourceChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumina_source_checks_total",
			Help: "Total number of network source probes",
		},
		[]string{"status"},
	)
)

// Catalog metrics
var (
	MediaItemsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lumina_media_items",
			Help: "Number of media items in the catalog by type",
		},
		[]string{"type"},
	)

	MediaUserItemsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lumina_media_user_items",
			Help: "Number of user-imported or user-created media items",
		},
	)

	MediaDescribedTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lumina_media_described_items",
			Help: "Number of media items with a cached AI description",
		},
	)

	MediaFavoritesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lumina_media_favorites",
			Help: "Number of favorite media items",
		},
	)

	AlbumsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lumina_albums",
			Help: "Number of user albums",
		},
	)

	SourcesTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lumina_network_sources",
			Help: "Number of registered network sources by status",
		},
		[]string{"status"},
	)
)

// Application info
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lumina_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
