// Package indexer keeps the video catalog in step with the filesystem.
//
// An [Indexer] runs the catalog builder against the configured root and
// publishes each successful result as a new catalog generation. Builds are
// triggered by:
//   - Initial index: one synchronous build at startup ([Indexer.Index])
//   - Manual reload: POST /reload or SIGHUP ([Indexer.Reload], [Indexer.TriggerIndex])
//   - Periodic rebuild: every INDEX_INTERVAL when non-zero
//   - File watching: fsnotify events under the root, debounced
//
// All triggers share one singleflight group, so two traversals never run at
// the same time. A trigger only accepts the result of a build that began
// after it fired: one that arrives mid-build waits for the running build,
// then for one more, which every caller queued in the meantime shares.
//
// A failed build leaves the live generation in place and is reported through
// the returned error and [Indexer.GetHealthStatus].
package indexer
