package memory

import (
	"context"
	"math"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"static-video-server/internal/logging"
	"static-video-server/internal/metrics"
)

// Config holds memory monitor configuration
type Config struct {
	// MemoryLimitBytes is the soft limit; 0 falls back to GOMEMLIMIT
	MemoryLimitBytes int64

	// HighWaterMark is the usage fraction below which held builds resume
	HighWaterMark float64

	// CriticalWaterMark is the usage fraction at which builds are held
	CriticalWaterMark float64

	// CheckInterval is how often the heap is sampled
	CheckInterval time.Duration
}

// DefaultConfig returns the default watermarks
func DefaultConfig() Config {
	return Config{
		HighWaterMark:     0.7,
		CriticalWaterMark: 0.85,
		CheckInterval:     5 * time.Second,
	}
}

// Monitor samples heap usage and holds catalog builds back while it is
// above the critical watermark. Without a known limit it never holds.
type Monitor struct {
	config Config
	limit  int64

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu    sync.RWMutex
	alloc uint64
	// resume is non-nil while builds are held and closed on recovery
	resume chan struct{}

	readMemStats func(*runtime.MemStats)
}

// NewMonitor creates a monitor. The limit comes from config, else from the
// runtime's GOMEMLIMIT.
func NewMonitor(config Config) *Monitor {
	limit := config.MemoryLimitBytes
	if limit == 0 {
		if rt := debug.SetMemoryLimit(-1); rt > 0 && rt < math.MaxInt64 {
			limit = rt
			logging.Info("Memory monitor using GOMEMLIMIT: %s", formatBytes(limit))
		} else {
			logging.Debug("Memory monitor: no limit known, build backpressure disabled")
		}
	}

	return &Monitor{
		config:       config,
		limit:        limit,
		done:         make(chan struct{}),
		readMemStats: runtime.ReadMemStats,
	}
}

// Enabled reports whether a limit is known and the monitor will sample.
func (m *Monitor) Enabled() bool {
	return m.limit > 0
}

// Start begins sampling. It is a no-op without a limit.
func (m *Monitor) Start() {
	if !m.Enabled() {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		tick := time.NewTicker(m.config.CheckInterval)
		defer tick.Stop()
		for {
			select {
			case <-m.done:
				return
			case <-tick.C:
				m.checkMemory()
			}
		}
	}()
}

// Stop halts sampling and releases any waiters. Safe to call twice.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
	m.wg.Wait()
}

func (m *Monitor) checkMemory() {
	var ms runtime.MemStats
	m.readMemStats(&ms)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.alloc = ms.Alloc
	if m.limit <= 0 {
		return
	}

	usage := float64(ms.Alloc) / float64(m.limit)
	metrics.MemoryUsageRatio.Set(usage)

	held := m.resume != nil
	if !held && usage >= m.config.CriticalWaterMark {
		logging.Warn("Memory critical (%.1f%% of limit), holding catalog builds", usage*100)
		m.resume = make(chan struct{})
		metrics.MemoryPaused.Set(1)
		metrics.MemoryGCPauses.Inc()
		go runtime.GC()
		return
	}
	if held && usage < m.config.HighWaterMark {
		logging.Info("Memory recovered (%.1f%% of limit), resuming catalog builds", usage*100)
		close(m.resume)
		m.resume = nil
		metrics.MemoryPaused.Set(0)
	}
}

// WaitIfPaused blocks while memory usage is critical. It returns ctx.Err()
// if the context ends first and context.Canceled if the monitor stops.
func (m *Monitor) WaitIfPaused(ctx context.Context) error {
	m.mu.RLock()
	resume := m.resume
	m.mu.RUnlock()
	if resume == nil {
		return nil
	}

	select {
	case <-resume:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-m.done:
		return context.Canceled
	}
}

// IsPaused reports whether builds are currently held back.
func (m *Monitor) IsPaused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resume != nil
}

// Stats is a point-in-time view of the monitor.
type Stats struct {
	AllocBytes int64   `json:"allocBytes"`
	LimitBytes int64   `json:"limitBytes"`
	UsageRatio float64 `json:"usageRatio"`
	Paused     bool    `json:"paused"`
}

// GetStats returns the last sample
func (m *Monitor) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Stats{
		AllocBytes: int64(min(m.alloc, math.MaxInt64)),
		LimitBytes: m.limit,
		Paused:     m.resume != nil,
	}
	if m.limit > 0 {
		s.UsageRatio = float64(m.alloc) / float64(m.limit)
	}
	return s
}
