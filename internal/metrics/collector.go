package metrics

import (
	"sync"
	"time"

	"static-video-server/internal/catalog"
	"static-video-server/internal/logging"
	"static-video-server/internal/mediatypes"
)

// StatsProvider supplies catalog statistics. *catalog.Store implements it.
type StatsProvider interface {
	Stats() catalog.Stats
}

// Collector periodically copies catalog statistics into gauges.
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	c.wg.Add(1)
	go c.collectLoop()
}

// Stop stops the metrics collection and waits for the loop to exit.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	c.wg.Wait()
}

// Refresh collects immediately. It is registered as the indexer's completion
// callback so gauges follow each new generation without waiting a tick.
func (c *Collector) Refresh() {
	c.collect()
}

func (c *Collector) collectLoop() {
	defer c.wg.Done()

	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.Stats()

	// Every known extension is set so counts drop to zero when files go away.
	for _, ext := range mediatypes.VideoExtensions() {
		CatalogEntries.WithLabelValues(ext).Set(float64(stats.ByExtension[ext]))
	}
	CatalogEntriesTotal.Set(float64(stats.Entries))
	CatalogGeneration.Set(float64(stats.Generation))

	logging.Debug("Metrics collected: generation=%d, entries=%d, extensions=%v",
		stats.Generation, stats.Entries, stats.Extensions())
}
