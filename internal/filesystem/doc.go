/*
Package filesystem provides resilient filesystem operations with automatic retry logic
for NFS stale file handle errors.

# Purpose

Video libraries frequently live on network mounts. This package wraps the
operations the server performs against the video root (os.ReadDir during a
catalog build, os.Stat and os.Open while streaming) with retry logic for
ESTALE (stale file handle) errors, which occur when NFS-mounted files are
accessed during network issues or server-side changes.

# Usage

	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())

	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
	    return err
	}
	defer file.Close()

# Retry Behavior

Defaults: 3 retries, 50ms initial backoff doubling up to 500ms. Only ESTALE
triggers a retry; every other error is returned immediately.

# Observation

Every operation is reported to the package-level [Observer], installed once
at startup with [SetObserver]. The metrics package provides the Prometheus
implementation; without one, observations are discarded.
*/
package filesystem
