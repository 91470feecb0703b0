package streaming

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"static-video-server/internal/metrics"
)

// Sentinel errors for streaming operations.
var (
	// ErrWriteTimeout indicates that a single write exceeded the configured
	// timeout, typically because the client stopped reading.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates that the client disconnected before the stream completed.
	ErrClientGone = errors.New("client disconnected")
)

// Config configures how files are written to clients.
type Config struct {
	// WriteTimeout bounds each write to the connection. Zero disables it.
	WriteTimeout time.Duration
}

// DefaultConfig returns the default streaming configuration.
func DefaultConfig() Config {
	return Config{WriteTimeout: 30 * time.Second}
}

// deadlineWriter pushes the connection write deadline forward before each
// write, so a stalled client fails the stream instead of holding it open.
type deadlineWriter struct {
	http.ResponseWriter
	rc           *http.ResponseController
	timeout      time.Duration
	deadlines    bool
	bytesWritten int64
	err          error
}

func newDeadlineWriter(w http.ResponseWriter, timeout time.Duration) *deadlineWriter {
	return &deadlineWriter{
		ResponseWriter: w,
		rc:             http.NewResponseController(w),
		timeout:        timeout,
		deadlines:      timeout > 0,
	}
}

func (dw *deadlineWriter) Write(p []byte) (int, error) {
	if dw.deadlines {
		if err := dw.rc.SetWriteDeadline(time.Now().Add(dw.timeout)); err != nil {
			// Recorders and some wrappers cannot set deadlines
			dw.deadlines = false
		}
	}

	n, err := dw.ResponseWriter.Write(p)
	dw.bytesWritten += int64(n)
	metrics.StreamBytesTotal.Add(float64(n))
	if err != nil && dw.err == nil {
		dw.err = err
	}
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (dw *deadlineWriter) Unwrap() http.ResponseWriter {
	return dw.ResponseWriter
}

// clearDeadline removes the per-write deadline so it does not affect the
// next request on a kept-alive connection.
func (dw *deadlineWriter) clearDeadline() {
	if dw.deadlines {
		_ = dw.rc.SetWriteDeadline(time.Time{})
	}
}

// result maps the first write failure to a sentinel error.
func (dw *deadlineWriter) result(ctx context.Context) error {
	switch {
	case dw.err == nil:
		return nil
	case errors.Is(dw.err, os.ErrDeadlineExceeded):
		metrics.StreamWriteErrors.Inc()
		return ErrWriteTimeout
	case ctx.Err() != nil:
		return ErrClientGone
	default:
		metrics.StreamWriteErrors.Inc()
		return dw.err
	}
}
