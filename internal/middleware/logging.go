package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"static-video-server/internal/logging"
)

// accessRecorder captures what the access log reports about a response.
type accessRecorder struct {
	http.ResponseWriter
	status  int
	bytes   int64
	written bool
}

func newAccessRecorder(w http.ResponseWriter) *accessRecorder {
	return &accessRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rec *accessRecorder) WriteHeader(code int) {
	if rec.written {
		return
	}
	rec.status = code
	rec.written = true
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *accessRecorder) Write(b []byte) (int, error) {
	rec.written = true
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += int64(n)
	return n, err
}

func (rec *accessRecorder) Flush() {
	if f, ok := rec.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the connection, which the
// streaming write deadlines depend on.
func (rec *accessRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// LoggingConfig holds configuration for the logging middleware
type LoggingConfig struct {
	// SkipPaths are never logged
	SkipPaths []string
	// StaticPrefixes and StaticExtensions identify static asset requests
	StaticPrefixes   []string
	StaticExtensions []string
	LogStaticFiles   bool
	LogHealthChecks  bool
}

// DefaultLoggingConfig logs everything except static assets
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		StaticPrefixes:   []string{"/assets/"},
		StaticExtensions: []string{".css", ".js", ".ico"},
		LogStaticFiles:   false,
		LogHealthChecks:  true,
	}
}

var healthCheckPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
}

func (c LoggingConfig) skips(path string) bool {
	for _, p := range c.SkipPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	if healthCheckPaths[path] {
		return !c.LogHealthChecks
	}

	if c.LogStaticFiles {
		return false
	}
	for _, p := range c.StaticPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	lower := strings.ToLower(path)
	for _, ext := range c.StaticExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// W3CLogger writes one W3C Extended Log Format line per request
type W3CLogger struct {
	config LoggingConfig
	log    zerolog.Logger
}

// NewW3CLogger creates a new W3C format logger writing through log
func NewW3CLogger(config LoggingConfig, log zerolog.Logger) *W3CLogger {
	return &W3CLogger{config: config, log: log}
}

// Logger returns HTTP logging middleware using W3C Extended Log Format
func Logger(config LoggingConfig) func(http.Handler) http.Handler {
	logger := NewW3CLogger(config, logging.WithComponent("http"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.skips(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newAccessRecorder(w)
			next.ServeHTTP(rec, r)
			logger.logRequest(r, rec, time.Since(start))
		})
	}
}

// logRequest writes the fields
// date time c-ip cs-method cs-uri-stem cs-uri-query sc-status sc-bytes
// time-taken(ms) sc(Content-Encoding) cs(User-Agent) cs(Referer)
func (l *W3CLogger) logRequest(r *http.Request, rec *accessRecorder, duration time.Duration) {
	now := time.Now().UTC()

	fields := []string{
		now.Format("2006-01-02"),
		now.Format("15:04:05"),
		orDash(sanitizeLogField(getClientIP(r))),
		orDash(sanitizeLogField(r.Method)),
		orDash(sanitizeLogField(r.URL.Path)),
		orDash(sanitizeLogField(r.URL.RawQuery)),
		strconv.Itoa(rec.status),
		strconv.FormatInt(rec.bytes, 10),
		strconv.FormatInt(duration.Milliseconds(), 10),
		orDash(rec.Header().Get("Content-Encoding")),
		orDash(escapeW3CField(sanitizeLogField(r.Header.Get("User-Agent")))),
		orDash(sanitizeLogField(r.Header.Get("Referer"))),
	}

	l.log.Log().Msg(strings.Join(fields, " "))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// sanitizeLogField turns line breaks into spaces and drops other control
// characters except tab, so client input cannot forge log lines or emit
// terminal escapes.
func sanitizeLogField(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r':
			return ' '
		case r == '\t':
			return r
		case r < 0x20:
			return -1
		}
		return r
	}, s)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// escapeW3CField quotes values containing whitespace or quotes
func escapeW3CField(s string) string {
	if !strings.ContainsAny(s, " \t\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
