// Package handlers provides the HTTP handlers of the video server.
//
// It includes handlers for:
//   - the HTML index and the JSON catalog listing
//   - streaming a video by catalog identifier
//   - reloading the catalog
//   - embedded static assets
//   - health checks, version and Prometheus metrics
//
// Handlers read the live catalog generation once per request; a reload
// running concurrently never affects a request already in progress.
package handlers
