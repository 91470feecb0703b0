// Package main provides the entry point for the static video server.
//
// The server scans a directory tree for video files, numbers them in
// depth-first order and serves an HTML index, a JSON listing and the files
// themselves under short identifiers such as /video/3.mkv.
//
// # Application Lifecycle
//
//  1. .env loading and flag parsing (flags default from the environment)
//  2. Memory configuration: GOMEMLIMIT from MEMORY_LIMIT when set
//  3. Configuration validation and assets root resolution
//  4. Initial catalog build; failure here aborts startup
//  5. Background rebuilds: periodic (--index-interval) and filesystem watch (--watch)
//  6. HTTP server with logging, metrics, compression and reload rate limiting
//  7. Graceful shutdown on SIGINT/SIGTERM; SIGHUP reloads the catalog
//
// # Routes
//
//	GET  /                 index page
//	GET  /video/{id}       stream a video (range requests supported)
//	GET  /{id}             same, for identifiers containing a dot
//	POST /reload           rebuild the catalog, then redirect to /
//	GET  /api/videos       catalog as JSON
//	GET  /api/videos/{id}  one entry as JSON
//	GET  /health, /healthz, /livez, /readyz, /version, /metrics
//
// Run with --help for the full flag list.
package main
