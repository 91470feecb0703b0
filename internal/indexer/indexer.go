package indexer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"static-video-server/internal/catalog"
	"static-video-server/internal/logging"
	"static-video-server/internal/memory"
	"static-video-server/internal/metrics"
)

const (
	// Quiet period after the last filesystem event before a watch rebuild
	defaultDebounce = 500 * time.Millisecond

	// singleflight key shared by every trigger
	buildKey = "catalog"
)

// Indexer owns the build-and-publish cycle of the catalog. Every trigger
// (startup, POST /reload, the periodic ticker and the filesystem watcher)
// funnels through one singleflight group, so at most one build runs at a time.
// A caller only accepts the result of a build whose scan began after the
// caller arrived; otherwise it queues for the next one.
type Indexer struct {
	store         *catalog.Store
	buildFn       func(root string) ([]catalog.File, catalog.BuildStats, error)
	root          string
	indexInterval time.Duration
	watch         bool
	debounce      time.Duration
	monitor       *memory.Monitor

	group singleflight.Group
	// requested counts build requests; each build records the count it
	// started at, which tells waiting callers whether it covers them
	requested atomic.Uint64

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	wg       sync.WaitGroup
	watcher  *watcher

	indexMu              sync.Mutex
	isIndexing           bool
	lastIndexTime        time.Time
	lastIndexDuration    time.Duration
	lastError            error
	lastStats            catalog.BuildStats
	initialIndexComplete bool
	startTime            time.Time

	// Callback when a build is published
	onIndexComplete func()
}

// New creates an Indexer that publishes builds of root into store. A zero
// indexInterval disables periodic rebuilds.
func New(store *catalog.Store, root string, indexInterval time.Duration) *Indexer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Indexer{
		store:         store,
		buildFn:       catalog.NewBuilder().Build,
		root:          root,
		indexInterval: indexInterval,
		debounce:      defaultDebounce,
		ctx:           ctx,
		cancel:        cancel,
		startTime:     time.Now(),
	}
}

// SetWatch enables rebuilding when the filesystem under root changes.
func (idx *Indexer) SetWatch(enabled bool) {
	idx.watch = enabled
}

// SetDebounce sets the quiet period used by the filesystem watcher.
func (idx *Indexer) SetDebounce(d time.Duration) {
	if d > 0 {
		idx.debounce = d
	}
}

// SetMemoryMonitor makes builds wait while the monitor reports memory pressure.
func (idx *Indexer) SetMemoryMonitor(m *memory.Monitor) {
	idx.monitor = m
}

// SetOnIndexComplete sets a callback invoked after each published build.
func (idx *Indexer) SetOnIndexComplete(callback func()) {
	idx.onIndexComplete = callback
}

// Root returns the directory the indexer scans.
func (idx *Indexer) Root() string {
	return idx.root
}

// Index performs the initial build. The caller treats an error as fatal
// because there is no previous generation to fall back to.
func (idx *Indexer) Index() error {
	return idx.rebuild(idx.ctx, metrics.TriggerInitial)
}

// Reload rebuilds the catalog and swaps the result in. The result always
// reflects a scan that started after Reload was called: a caller arriving
// while an older build runs waits for it to finish and then for one more
// build, which it shares with every other caller queued behind it. On failure
// the live generation is left untouched and the *catalog.IOError is returned.
// If ctx ends first, Reload returns ctx.Err() and the build carries on.
func (idx *Indexer) Reload(ctx context.Context) error {
	return idx.rebuild(ctx, metrics.TriggerManual)
}

// TriggerIndex starts a reload in the background. It does nothing once Stop
// has been called.
func (idx *Indexer) TriggerIndex() {
	idx.indexMu.Lock()
	if idx.ctx.Err() != nil {
		idx.indexMu.Unlock()
		return
	}
	idx.wg.Add(1)
	idx.indexMu.Unlock()

	go func() {
		defer idx.wg.Done()
		if err := idx.Reload(idx.ctx); err != nil {
			logging.Error("Triggered reload failed: %v", err)
		}
	}()
}

func (idx *Indexer) rebuild(ctx context.Context, trigger string) error {
	seq := idx.requested.Add(1)

	for {
		leader := false
		ch := idx.group.DoChan(buildKey, func() (interface{}, error) {
			leader = true
			covers := idx.requested.Load()
			return covers, idx.build(trigger)
		})

		var res singleflight.Result
		select {
		case res = <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}

		if res.Val.(uint64) >= seq {
			if res.Shared && !leader {
				metrics.ReloadCoalescedTotal.Inc()
				logging.Debug("Reload (%s) shared a build with other callers", trigger)
			}
			return res.Err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		logging.Debug("Reload (%s) arrived after the running build began, queueing another", trigger)
	}
}

// build runs one traversal and publishes it. It is only called from within
// the singleflight group.
func (idx *Indexer) build(trigger string) error {
	if err := idx.ctx.Err(); err != nil {
		return fmt.Errorf("indexer stopped: %w", err)
	}
	if idx.monitor != nil {
		if err := idx.monitor.WaitIfPaused(idx.ctx); err != nil {
			return fmt.Errorf("catalog build held back by memory pressure: %w", err)
		}
	}

	idx.setIndexing(true)
	defer idx.setIndexing(false)

	metrics.IndexerIsRunning.Set(1)
	defer metrics.IndexerIsRunning.Set(0)
	metrics.IndexerRunsTotal.WithLabelValues(trigger).Inc()

	startTime := time.Now()
	logging.Debug("Starting catalog build of %s (trigger: %s)", idx.root, trigger)

	files, stats, err := idx.buildFn(idx.root)
	duration := time.Since(startTime)
	metrics.IndexerRunDuration.Observe(duration.Seconds())

	if err != nil {
		metrics.IndexerErrors.Inc()
		idx.indexMu.Lock()
		idx.lastError = err
		idx.indexMu.Unlock()
		logging.Error("Catalog build failed after %v: %v", duration, err)
		return err
	}

	gen := idx.store.Replace(idx.root, files)
	idx.finalizeIndex(gen, stats, duration)
	return nil
}

func (idx *Indexer) setIndexing(v bool) {
	idx.indexMu.Lock()
	idx.isIndexing = v
	idx.indexMu.Unlock()
}

// finalizeIndex records a published generation and updates stats.
func (idx *Indexer) finalizeIndex(gen *catalog.Generation, stats catalog.BuildStats, duration time.Duration) {
	idx.indexMu.Lock()
	idx.lastIndexTime = gen.BuiltAt
	idx.lastIndexDuration = duration
	idx.lastStats = stats
	idx.lastError = nil
	idx.initialIndexComplete = true
	idx.indexMu.Unlock()

	metrics.IndexerLastRunTimestamp.Set(float64(gen.BuiltAt.Unix()))
	metrics.IndexerLastRunDuration.Set(duration.Seconds())
	metrics.IndexerFilesSeen.Set(float64(stats.FilesSeen))
	metrics.IndexerDirectoriesScanned.Set(float64(stats.Directories))

	logging.Info("Catalog generation %d published: %d videos (%d files, %d directories scanned) in %v",
		gen.Number, gen.Len(), stats.FilesSeen, stats.Directories, duration)

	if idx.onIndexComplete != nil {
		idx.onIndexComplete()
	}
}

// Start launches the periodic rebuild loop and the filesystem watcher when
// they are enabled. The initial build is not part of Start; call Index first.
// A watcher failure is returned after the periodic loop has started.
func (idx *Indexer) Start() error {
	if idx.indexInterval > 0 {
		logging.Info("Periodic catalog rebuild every %v", idx.indexInterval)
		idx.wg.Add(1)
		go func() {
			defer idx.wg.Done()
			idx.periodicIndex()
		}()
	}

	if idx.watch {
		w, err := newWatcher(idx.root)
		if err != nil {
			return fmt.Errorf("failed to start filesystem watcher: %w", err)
		}
		idx.indexMu.Lock()
		idx.watcher = w
		idx.indexMu.Unlock()
		logging.Info("Watching %s for changes (%d directories)", idx.root, w.count())

		idx.wg.Add(1)
		go func() {
			defer idx.wg.Done()
			idx.watchLoop(w)
		}()
	}

	return nil
}

// Stop halts the background loops and waits for them, including any build
// they started.
func (idx *Indexer) Stop() {
	idx.stopOnce.Do(func() {
		idx.indexMu.Lock()
		idx.cancel()
		idx.indexMu.Unlock()
		idx.wg.Wait()
		if idx.watcher != nil {
			if err := idx.watcher.close(); err != nil {
				logging.Warn("Error closing filesystem watcher: %v", err)
			}
		}
	})
}

func (idx *Indexer) periodicIndex() {
	ticker := time.NewTicker(idx.indexInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logging.Debug("Periodic rebuild triggered")
			if err := idx.rebuild(idx.ctx, metrics.TriggerPeriodic); err != nil {
				logging.Error("Periodic rebuild failed: %v", err)
			}
		case <-idx.ctx.Done():
			return
		}
	}
}

// IsReady reports whether a generation has been published.
func (idx *Indexer) IsReady() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.initialIndexComplete
}

// IsIndexing returns whether a build is currently in progress.
func (idx *Indexer) IsIndexing() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.isIndexing
}

// LastIndexTime returns the time of the last published build.
func (idx *Indexer) LastIndexTime() time.Time {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.lastIndexTime
}

// HealthStatus contains health check information.
type HealthStatus struct {
	Ready              bool          `json:"ready"`
	Indexing           bool          `json:"indexing"`
	Watching           bool          `json:"watching"`
	StartTime          time.Time     `json:"startTime"`
	Uptime             string        `json:"uptime"`
	Generation         uint64        `json:"generation"`
	Videos             int           `json:"videos"`
	LastIndexed        time.Time     `json:"lastIndexed,omitempty"`
	LastIndexDuration  string        `json:"lastIndexDuration,omitempty"`
	LastError          string        `json:"lastError,omitempty"`
	DirectoriesScanned int           `json:"directoriesScanned"`
	FilesSeen          int           `json:"filesSeen"`
	Memory             *memory.Stats `json:"memory,omitempty"`
}

// GetHealthStatus returns detailed health information.
func (idx *Indexer) GetHealthStatus() HealthStatus {
	gen := idx.store.Snapshot()

	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	status := HealthStatus{
		Ready:              idx.initialIndexComplete,
		Indexing:           idx.isIndexing,
		Watching:           idx.watcher != nil,
		StartTime:          idx.startTime,
		Uptime:             time.Since(idx.startTime).Round(time.Second).String(),
		Generation:         gen.Number,
		Videos:             gen.Len(),
		LastIndexed:        idx.lastIndexTime,
		DirectoriesScanned: idx.lastStats.Directories,
		FilesSeen:          idx.lastStats.FilesSeen,
	}

	if idx.lastIndexDuration > 0 {
		status.LastIndexDuration = idx.lastIndexDuration.String()
	}
	if idx.lastError != nil {
		status.LastError = idx.lastError.Error()
	}
	if idx.monitor != nil && idx.monitor.Enabled() {
		stats := idx.monitor.GetStats()
		status.Memory = &stats
	}

	return status
}
