package middleware

import (
	"bytes"
	"compress/gzip"
	"mime"
	"net/http"
	"slices"
	"strings"
	"sync"
)

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// MinSize is the smallest body, in bytes, worth compressing
	MinSize int
	// Level is the gzip level (gzip.BestSpeed to gzip.BestCompression)
	Level int
	// CompressibleTypes are media types that get compressed
	CompressibleTypes []string
	// SkipPrefixes are request paths passed through untouched
	SkipPrefixes []string
}

// DefaultCompressionConfig compresses pages, scripts, styles and JSON.
// Video is already compressed and served with byte ranges, so its routes are
// skipped outright.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize: 1024,
		Level:   gzip.DefaultCompression,
		CompressibleTypes: []string{
			"text/html",
			"text/css",
			"text/plain",
			"text/javascript",
			"application/json",
			"application/javascript",
			"image/x-icon",
		},
		SkipPrefixes: []string{"/video/", "/metrics"},
	}
}

func newGzipPool(level int) *sync.Pool {
	return &sync.Pool{
		New: func() interface{} {
			w, err := gzip.NewWriterLevel(nil, level)
			if err != nil {
				w = gzip.NewWriter(nil)
			}
			return w
		},
	}
}

// compressWriter holds the body back until MinSize bytes have arrived or the
// handler finishes, then commits to gzip or identity encoding.
type compressWriter struct {
	http.ResponseWriter
	config  CompressionConfig
	pool    *sync.Pool
	status  int
	pending bytes.Buffer
	decided bool
	gz      *gzip.Writer
}

func newCompressWriter(w http.ResponseWriter, config CompressionConfig, pool *sync.Pool) *compressWriter {
	return &compressWriter{ResponseWriter: w, config: config, pool: pool}
}

func (cw *compressWriter) WriteHeader(code int) {
	if cw.decided || cw.status != 0 {
		return
	}
	cw.status = code
	if code == http.StatusNoContent || code == http.StatusNotModified || code < http.StatusOK {
		cw.commit(false)
	}
}

func (cw *compressWriter) Write(p []byte) (int, error) {
	if cw.decided {
		if cw.gz != nil {
			return cw.gz.Write(p)
		}
		return cw.ResponseWriter.Write(p)
	}

	cw.pending.Write(p)
	if cw.pending.Len() >= cw.config.MinSize {
		if err := cw.commit(cw.compressible()); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (cw *compressWriter) compressible() bool {
	if cw.Header().Get("Content-Encoding") != "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(cw.Header().Get("Content-Type"))
	if err != nil {
		return false
	}
	return slices.Contains(cw.config.CompressibleTypes, mediaType)
}

// commit sends the header and any held-back bytes
func (cw *compressWriter) commit(compress bool) error {
	cw.decided = true
	if cw.status == 0 {
		cw.status = http.StatusOK
	}

	if compress {
		h := cw.Header()
		h.Del("Content-Length")
		h.Set("Content-Encoding", "gzip")
		h.Add("Vary", "Accept-Encoding")
		cw.gz = cw.pool.Get().(*gzip.Writer)
		cw.gz.Reset(cw.ResponseWriter)
	}
	cw.ResponseWriter.WriteHeader(cw.status)

	if cw.pending.Len() == 0 {
		return nil
	}
	var err error
	if cw.gz != nil {
		_, err = cw.gz.Write(cw.pending.Bytes())
	} else {
		_, err = cw.ResponseWriter.Write(cw.pending.Bytes())
	}
	cw.pending = bytes.Buffer{}
	return err
}

// Close flushes whatever is still held back and returns the gzip writer
func (cw *compressWriter) Close() error {
	if !cw.decided {
		if err := cw.commit(false); err != nil {
			return err
		}
	}
	if cw.gz == nil {
		return nil
	}
	err := cw.gz.Close()
	cw.pool.Put(cw.gz)
	cw.gz = nil
	return err
}

// Flush implements http.Flusher
func (cw *compressWriter) Flush() {
	if !cw.decided {
		cw.commit(cw.pending.Len() >= cw.config.MinSize && cw.compressible())
	}
	if cw.gz != nil {
		cw.gz.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController
func (cw *compressWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}

// Compression returns a middleware that gzips responses for clients that
// accept it
func Compression(config CompressionConfig) func(http.Handler) http.Handler {
	pool := newGzipPool(config.Level)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") ||
				r.Header.Get("Range") != "" ||
				hasAnyPrefix(r.URL.Path, config.SkipPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			cw := newCompressWriter(w, config, pool)
			defer cw.Close()

			next.ServeHTTP(cw, r)
		})
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
