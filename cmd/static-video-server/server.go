package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"static-video-server/internal/catalog"
	"static-video-server/internal/filesystem"
	"static-video-server/internal/handlers"
	"static-video-server/internal/indexer"
	"static-video-server/internal/logging"
	"static-video-server/internal/memory"
	"static-video-server/internal/metrics"
	"static-video-server/internal/middleware"
	"static-video-server/internal/startup"
	"static-video-server/internal/web"
)

const shutdownTimeout = 30 * time.Second

// components are the long-running parts stopped on shutdown.
type components struct {
	server    *http.Server
	indexer   *indexer.Indexer
	collector *metrics.Collector
	monitor   *memory.Monitor
}

func run(opts startup.Options) error {
	startTime := time.Now()

	memory.ConfigureFromEnv()

	config, err := startup.LoadConfig(opts)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	filesystem.SetObserver(metrics.NewFilesystemObserver())
	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()

	store := catalog.NewStore()
	collector := metrics.NewCollector(store, time.Minute)

	idx := indexer.New(store, config.Root, config.IndexInterval)
	idx.SetWatch(config.Watch)
	idx.SetMemoryMonitor(monitor)
	idx.SetOnIndexComplete(collector.Refresh)

	// The first generation must exist before any request is served
	startup.LogCatalogInit(config.Root)
	buildStart := time.Now()
	if err := idx.Index(); err != nil {
		monitor.Stop()
		return fmt.Errorf("initial catalog build failed: %w", err)
	}
	startup.LogCatalogReady(store.Snapshot().Len(), time.Since(buildStart))

	if err := idx.Start(); err != nil {
		logging.Warn("Background catalog rebuilds unavailable: %v", err)
	}
	startup.LogIndexerStarted(config.IndexInterval, config.Watch)
	collector.Start()

	h := handlers.New(store, idx, config)
	router := setupRouter(h, config)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	srv := &http.Server{
		Addr:              config.Addr(),
		Handler:           wrapHandler(router, config),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		idx.Stop()
		collector.Stop()
		monitor.Stop()
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		handleSignals(components{server: srv, indexer: idx, collector: collector, monitor: monitor})
	}()

	startup.LogServerStarted(config, time.Since(startTime))
	if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	return nil
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// mux only runs Use middleware on matched routes; 404 and 405 responses
	// are recorded through their own handlers
	record := middleware.Metrics(middleware.DefaultMetricsConfig())
	r.Use(record)
	r.NotFoundHandler = record(http.NotFoundHandler())
	r.MethodNotAllowedHandler = record(http.HandlerFunc(methodNotAllowed))

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)
	r.Handle("/metrics", h.MetricsHandler()).Methods(http.MethodGet)

	// Pages and embedded assets
	r.HandleFunc("/", h.Index).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/assets/index.js", h.ServeAsset(web.Script)).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/assets/index.css", h.ServeAsset(web.Stylesheet)).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/favicon.ico", h.ServeAsset(web.Favicon)).Methods(http.MethodGet, http.MethodHead)

	// Catalog
	reloadLimit := middleware.RateLimit(middleware.ReloadRateLimitConfig(config.ReloadRateLimit))
	r.Handle("/reload", reloadLimit(http.HandlerFunc(h.Reload))).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/videos", h.ListVideos).Methods(http.MethodGet)
	api.HandleFunc("/videos/{id}", h.GetVideo).Methods(http.MethodGet)

	r.HandleFunc("/video/{id}", h.StreamVideo).Methods(http.MethodGet, http.MethodHead)

	// Bare identifiers at the root; registered last so fixed paths win
	r.HandleFunc("/{id:[^/]+\\.[^/]+}", h.StreamVideo).Methods(http.MethodGet, http.MethodHead)

	return r
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func wrapHandler(router http.Handler, config *startup.Config) http.Handler {
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	logged := middleware.Logger(loggingConfig)(router)

	return middleware.Compression(middleware.DefaultCompressionConfig())(logged)
}

// handleSignals reloads the catalog on SIGHUP and shuts down on SIGINT or
// SIGTERM.
func handleSignals(c components) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	for sig := range sigChan {
		if sig == syscall.SIGHUP {
			logging.Info("Received SIGHUP, reloading catalog")
			c.indexer.TriggerIndex()
			continue
		}

		shutdown(c, sig.String())
		return
	}
}

func shutdown(c components, reason string) {
	startup.LogShutdownInitiated(reason)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := c.server.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownStep("Stopping indexer")
	c.indexer.Stop()
	startup.LogShutdownStepComplete("Indexer stopped")

	startup.LogShutdownStep("Stopping metrics collector")
	c.collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	startup.LogShutdownStep("Stopping memory monitor")
	c.monitor.Stop()
	startup.LogShutdownStepComplete("Memory monitor stopped")

	startup.LogShutdownComplete()
}
