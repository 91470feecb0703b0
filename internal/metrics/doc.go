// Package metrics provides Prometheus instrumentation for the video server.
//
// All metrics are prefixed with "video_server_" and registered with the
// default registry through promauto.
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of requests by method, route template and status
//   - HTTPRequestDuration: Histogram of request duration by method and route
//   - HTTPRequestsInFlight: Gauge of requests currently being served
//   - HTTPRateLimitedTotal: Counter of requests rejected by the rate limiter
//
// ## Catalog Metrics
//
//   - CatalogEntries: Gauge of cataloged videos by extension
//   - CatalogEntriesTotal: Gauge of entries in the live generation
//   - CatalogGeneration: Gauge holding the live generation number
//   - CatalogLookupsTotal: Counter of identifier lookups (hit/miss)
//
// ## Indexer Metrics
//
//   - IndexerRunsTotal: Counter of builds by trigger (initial/manual/periodic/watch)
//   - IndexerErrors: Counter of failed builds
//   - IndexerIsRunning: Gauge indicating a build in progress
//   - IndexerRunDuration, IndexerLastRunDuration, IndexerLastRunTimestamp
//   - IndexerFilesSeen, IndexerDirectoriesScanned: traversal size of the last build
//   - ReloadCoalescedTotal: Counter of reloads served by a build another caller started
//   - WatcherEventsTotal, WatcherErrors, WatchedDirectories: fsnotify activity
//
// ## Filesystem Metrics
//
// Recorded through [NewFilesystemObserver], installed with
// filesystem.SetObserver at startup:
//   - FilesystemOperationDuration / FilesystemOperationErrors by operation
//   - FilesystemRetryAttempts, FilesystemRetrySuccess, FilesystemRetryFailures
//   - FilesystemStaleErrors: ESTALE occurrences on NFS mounts
//
// ## Streaming Metrics
//
//   - StreamBytesTotal, StreamsActive, StreamOpenErrors, StreamWriteErrors
//
// ## Memory Metrics
//
//   - MemoryUsageRatio, MemoryPaused, MemoryGCPauses
//
// # Collector
//
// [Collector] periodically copies catalog statistics from a [StatsProvider]
// into the catalog gauges. [Collector.Refresh] is also registered as the
// indexer's completion callback:
//
//	collector := metrics.NewCollector(store, time.Minute)
//	collector.Start()
//	defer collector.Stop()
//
// # Prometheus Queries
//
// Request rate by route:
//
//	sum(rate(video_server_http_requests_total[5m])) by (path)
//
// Streaming throughput:
//
//	rate(video_server_stream_bytes_total[5m])
//
// Reload failure ratio:
//
//	rate(video_server_indexer_errors_total[1h]) / sum(rate(video_server_indexer_runs_total[1h]))
package metrics
