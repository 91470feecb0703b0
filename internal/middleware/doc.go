// Package middleware provides HTTP middleware for the video server.
//
// It includes:
//   - Request logging in W3C Extended Log Format through zerolog
//   - Prometheus request metrics labeled by route template
//   - gzip compression for pages and JSON (video responses pass through)
//   - Per-client rate limiting backed by go-chi/httprate
//
// Every response writer wrapper implements Unwrap, so handlers can set
// per-write deadlines with http.ResponseController.
package middleware
