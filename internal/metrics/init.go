package metrics

import (
	"static-video-server/internal/filesystem"
	"static-video-server/internal/mediatypes"
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, ext := range mediatypes.VideoExtensions() {
		CatalogEntries.WithLabelValues(ext)
	}

	for _, result := range []string{"hit", "miss"} {
		CatalogLookupsTotal.WithLabelValues(result)
	}

	for _, trigger := range []string{TriggerInitial, TriggerManual, TriggerPeriodic, TriggerWatch} {
		IndexerRunsTotal.WithLabelValues(trigger)
	}

	for _, op := range []string{filesystem.OpReadDir, filesystem.OpStat, filesystem.OpOpen} {
		FilesystemOperationDuration.WithLabelValues(op)
		FilesystemOperationErrors.WithLabelValues(op)
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}

	for _, ev := range []string{"create", "write", "remove", "rename", "chmod"} {
		WatcherEventsTotal.WithLabelValues(ev)
	}
}

// Build triggers used as the IndexerRunsTotal label.
const (
	TriggerInitial  = "initial"
	TriggerManual   = "manual"
	TriggerPeriodic = "periodic"
	TriggerWatch    = "watch"
)
