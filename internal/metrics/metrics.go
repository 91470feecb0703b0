package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_server_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_server_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_server_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	HTTPRateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_server_http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"path"},
	)
)

// Catalog metrics
var (
	CatalogEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_server_catalog_entries",
			Help: "Number of cataloged videos by extension",
		},
		[]string{"ext"},
	)

	CatalogEntriesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_server_catalog_entries_total",
			Help: "Number of videos in the live catalog generation",
		},
	)

	CatalogGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_server_catalog_generation",
			Help: "Number of the live catalog generation",
		},
	)

	CatalogLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_server_catalog_lookups_total",
			Help: "Total number of identifier lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)
)

// Indexer metrics
var (
	IndexerRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_server_indexer_runs_total",
			Help: "Total number of catalog builds by trigger",
		},
		[]string{"trigger"}, // "initial", "manual", "periodic", "watch"
	)

	IndexerErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_server_indexer_errors_total",
			Help: "Total number of failed catalog builds",
		},
	)

	IndexerIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_server_indexer_running",
			Help: "Whether a catalog build is currently running (1 = running, 0 = idle)",
		},
	)

	IndexerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_server_indexer_last_run_timestamp",
			Help: "Unix timestamp of the last successful catalog build",
		},
	)

	IndexerLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_server_indexer_last_run_duration_seconds",
			Help: "Duration of the last successful catalog build in seconds",
		},
	)

	IndexerRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_server_indexer_run_duration_seconds",
			Help:    "Catalog build duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	IndexerFilesSeen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_server_indexer_files_seen",
			Help: "Number of files examined by the last successful build",
		},
	)

	IndexerDirectoriesScanned = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_server_indexer_directories_scanned",
			Help: "Number of directories read by the last successful build",
		},
	)

	ReloadCoalescedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_server_reload_coalesced_total",
			Help: "Total number of reload requests served by a build another caller started",
		},
	)
)

// Watcher metrics
var (
	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_server_watcher_events_total",
			Help: "Total number of filesystem watcher events",
		},
		[]string{"event_type"},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_server_watcher_errors_total",
			Help: "Total number of filesystem watcher errors",
		},
	)

	WatchedDirectories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_server_watched_directories",
			Help: "Number of directories currently being watched",
		},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_server_filesystem_operation_duration_seconds",
			Help:    "Filesystem operation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_server_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_server_filesystem_retry_attempts_total",
			Help: "Total number of filesystem operation retries",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_server_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_server_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_server_filesystem_stale_errors_total",
			Help: "Total number of stale NFS file handle errors",
		},
		[]string{"operation"},
	)
)

// Streaming metrics
var (
	StreamBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_server_stream_bytes_total",
			Help: "Total number of video bytes written to clients",
		},
	)

	StreamsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_server_streams_active",
			Help: "Number of video streams currently being served",
		},
	)

	StreamOpenErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_server_stream_open_errors_total",
			Help: "Total number of cataloged files that could not be opened",
		},
	)

	StreamWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_server_stream_write_errors_total",
			Help: "Total number of streams aborted by write errors or timeouts",
		},
	)
)

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_server_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_server_memory_paused",
			Help: "Whether catalog builds are paused by memory pressure (1 = paused)",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_server_memory_gc_pauses_total",
			Help: "Total number of times memory pressure paused catalog builds",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_server_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
