package streaming

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"static-video-server/internal/filesystem"
	"static-video-server/internal/logging"
	"static-video-server/internal/metrics"
)

// OpenError reports that a cataloged file could not be opened or stat'ed.
// It is distinct from an unknown identifier: the entry exists but the file
// behind it has gone or become unreadable since the last build.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// ServeFile writes the file at path to w with the given content type.
// Range and conditional requests are handled by http.ServeContent.
//
// An *OpenError is returned before anything is written, so the caller can
// still send an error status. Once streaming has begun, failures are returned
// as ErrWriteTimeout, ErrClientGone or the underlying write error.
func ServeFile(w http.ResponseWriter, r *http.Request, path, contentType string, cfg Config) error {
	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		metrics.StreamOpenErrors.Inc()
		return &OpenError{Path: path, Err: err}
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("Failed to close %s: %v", path, err)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		metrics.StreamOpenErrors.Inc()
		return &OpenError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		metrics.StreamOpenErrors.Inc()
		return &OpenError{Path: path, Err: fmt.Errorf("not a regular file (mode %s)", info.Mode())}
	}

	metrics.StreamsActive.Inc()
	defer metrics.StreamsActive.Dec()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")

	dw := newDeadlineWriter(w, cfg.WriteTimeout)
	defer dw.clearDeadline()

	start := time.Now()
	http.ServeContent(dw, r, filepath.Base(path), info.ModTime(), file)

	logging.Debug("Stream of %s completed: %d bytes in %v", path, dw.bytesWritten, time.Since(start))
	return dw.result(r.Context())
}
