package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Path resolution metrics
var (
	PathRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_path_rejections_total",
			Help: "Requested paths rejected by the resolver",
		},
		[]string{"reason"}, // "traversal", "outside_root", "not_found", "not_directory", "not_file"
	)
)

// Scanner metrics
var (
	ScannerOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_scanner_operations_total",
			Help: "Total number of scanner operations",
		},
		[]string{"operation", "status"},
	)

	ScannerOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_scanner_operation_duration_seconds",
			Help:    "Scanner operation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	ScannerItemsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_scanner_items_returned",
			Help:    "Number of media items returned by scanner operations",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"operation"},
	)

	ScannerFilesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_scanner_files_skipped_total",
			Help: "Directory entries skipped during a scan, by reason",
		},
		[]string{"reason"}, // "thumbnail", "hidden", "directory", "not_media", "raw", "unreadable"
	)

	ScannerTitleRowsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_scanner_title_rows_skipped_total",
			Help: "Rows of titles.csv ignored because they were malformed or referenced missing files",
		},
	)
)

// Thumbnail metrics
var (
	ThumbnailCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_thumbnail_cache_hits_total",
			Help: "Total number of thumbnail cache hits",
		},
	)

	ThumbnailCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_thumbnail_cache_misses_total",
			Help: "Total number of thumbnail cache misses",
		},
	)

	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_thumbnail_generations_total",
			Help: "Total number of thumbnail generations",
		},
		[]string{"format", "status"},
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"format"},
	)

	ThumbnailFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_thumbnail_fallbacks_total",
			Help: "Thumbnail requests answered without a generated thumbnail, by reason",
		},
		[]string{"reason"}, // "unsupported", "passthrough", "codec_unavailable", "placeholder"
	)

	ThumbnailPersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_thumbnail_persist_failures_total",
			Help: "Generated thumbnails that could not be written next to their original",
		},
	)

	ThumbnailBytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_thumbnail_bytes_written_total",
			Help: "Bytes of thumbnail data persisted to disk",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_filesystem_retry_attempts_total",
			Help: "Retries of filesystem operations after a stale file handle",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_filesystem_retry_success_total",
			Help: "Filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_filesystem_retry_failures_total",
			Help: "Filesystem operations that failed after exhausting retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_filesystem_stale_errors_total",
			Help: "Stale file handle errors observed",
		},
		[]string{"operation"},
	)
)

// Memory backpressure metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_memory_usage_ratio",
			Help: "Heap allocation as a ratio of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_memory_paused",
			Help: "1 while batch thumbnail generation is paused for memory pressure",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_memory_gc_pauses_total",
			Help: "Times generation was paused and a GC forced for memory pressure",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gallery_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
