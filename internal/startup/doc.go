// Package startup handles configuration loading and startup/shutdown logging.
//
// # Configuration
//
// Settings come from command-line flags whose defaults are read from
// environment variables by [OptionsFromEnv]. A .env file in the working
// directory is applied first by [LoadDotEnv]; variables already set in the
// process environment win. [LoadConfig] validates the options and resolves
// the assets root to an absolute path, creating it when missing.
//
//   - ASSETS_ROOT: directory scanned for videos (default: assets)
//   - HOST: listen host (default: 0.0.0.0)
//   - PORT: listen port (default: 9092)
//   - INDEX_INTERVAL: periodic catalog rebuild, Go duration or seconds (default: 0, disabled)
//   - WATCH: rebuild on filesystem changes (default: false)
//   - RELOAD_RATE_LIMIT: reload requests per minute per client (default: 10, 0 disables)
//   - STREAM_WRITE_TIMEOUT: idle write timeout while streaming (default: 30s)
//   - LOG_STATIC_FILES: log static asset requests (default: false)
//   - LOG_HEALTH_CHECKS: log health check requests (default: true)
//   - LOG_LEVEL / DEBUG / LOG_FORMAT: see package logging
//   - MEMORY_LIMIT / MEMORY_RATIO / GOMEMLIMIT: see package memory
//
// # Build Information
//
// Version, Commit and BuildTime are injected via ldflags and exposed via
// [GetBuildInfo].
//
// # Lifecycle Logging
//
//   - [LogCatalogInit], [LogCatalogReady]: initial catalog build
//   - [LogIndexerStarted]: periodic and watch triggers
//   - [LogHTTPRoutes]: registered routes (debug level)
//   - [LogServerStarted]: listen address and startup duration
//   - [LogShutdownInitiated], [LogShutdownStep], [LogShutdownComplete]
package startup
