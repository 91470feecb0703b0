package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"static-video-server/internal/logging"
	"static-video-server/internal/metrics"
)

// RateLimitConfig holds configuration for the rate limiting middleware
type RateLimitConfig struct {
	// RequestLimit is the number of requests allowed per window; 0 disables limiting
	RequestLimit int
	// WindowSize is the sliding window length
	WindowSize time.Duration
	// KeyFunc extracts the rate limit key; defaults to the client IP
	KeyFunc httprate.KeyFunc
}

// ReloadRateLimitConfig limits catalog reloads to requestsPerMinute per client
func ReloadRateLimitConfig(requestsPerMinute int) RateLimitConfig {
	return RateLimitConfig{
		RequestLimit: requestsPerMinute,
		WindowSize:   time.Minute,
	}
}

// RateLimit returns a sliding-window rate limiter. Rejected requests get
// 429 with a Retry-After header and are counted per path.
func RateLimit(config RateLimitConfig) func(http.Handler) http.Handler {
	if config.RequestLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = httprate.KeyByIP
	}

	retryAfter := strconv.Itoa(int(config.WindowSize.Seconds()))

	return httprate.Limit(
		config.RequestLimit,
		config.WindowSize,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.HTTPRateLimitedTotal.WithLabelValues(routeLabel(r)).Inc()
			logging.Warn("Rate limit exceeded for %s %s from %s",
				r.Method, sanitizeLogField(r.URL.Path), sanitizeLogField(getClientIP(r)))

			w.Header().Set("Retry-After", retryAfter)
			http.Error(w, "Too many requests, try again later", http.StatusTooManyRequests)
		}),
	)
}
