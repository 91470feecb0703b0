package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"static-video-server/internal/catalog"
)

type mockStatsProvider struct {
	mu    sync.Mutex
	stats catalog.Stats
	calls int
}

func (m *mockStatsProvider) Stats() catalog.Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.stats
}

func (m *mockStatsProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestNewCollector(t *testing.T) {
	provider := &mockStatsProvider{}
	collector := NewCollector(provider, 5*time.Second)

	if collector.statsProvider != provider {
		t.Error("statsProvider not set correctly")
	}
	if collector.interval != 5*time.Second {
		t.Errorf("interval = %v, want %v", collector.interval, 5*time.Second)
	}
	if collector.stopChan == nil {
		t.Error("stopChan not initialized")
	}
}

func TestCollectorRefresh(t *testing.T) {
	provider := &mockStatsProvider{stats: catalog.Stats{
		Generation:  7,
		Entries:     3,
		ByExtension: map[string]int{"mp4": 2, "mkv": 1},
	}}
	collector := NewCollector(provider, time.Hour)

	collector.Refresh()

	if got := testutil.ToFloat64(CatalogGeneration); got != 7 {
		t.Errorf("CatalogGeneration = %v, want 7", got)
	}
	if got := testutil.ToFloat64(CatalogEntriesTotal); got != 3 {
		t.Errorf("CatalogEntriesTotal = %v, want 3", got)
	}
	if got := testutil.ToFloat64(CatalogEntries.WithLabelValues("mp4")); got != 2 {
		t.Errorf("CatalogEntries{mp4} = %v, want 2", got)
	}

	// Extensions that disappear from the catalog drop to zero.
	provider.mu.Lock()
	provider.stats = catalog.Stats{Generation: 8, Entries: 1, ByExtension: map[string]int{"mkv": 1}}
	provider.mu.Unlock()
	collector.Refresh()

	if got := testutil.ToFloat64(CatalogEntries.WithLabelValues("mp4")); got != 0 {
		t.Errorf("CatalogEntries{mp4} = %v, want 0", got)
	}
}

func TestCollectorWithStore(t *testing.T) {
	store := catalog.NewStore()
	store.Replace("/videos", []catalog.File{{Path: "/videos/a.webm", Name: "a.webm", Ext: "webm"}})

	NewCollector(store, time.Hour).Refresh()

	if got := testutil.ToFloat64(CatalogEntries.WithLabelValues("webm")); got != 1 {
		t.Errorf("CatalogEntries{webm} = %v, want 1", got)
	}
}

func TestCollectorNilProvider(_ *testing.T) {
	NewCollector(nil, time.Hour).Refresh()
}

func TestCollectorStartStop(t *testing.T) {
	provider := &mockStatsProvider{stats: catalog.Stats{ByExtension: map[string]int{}}}
	collector := NewCollector(provider, 10*time.Millisecond)

	collector.Start()
	time.Sleep(50 * time.Millisecond)
	collector.Stop()

	calls := provider.callCount()
	if calls < 2 {
		t.Errorf("expected several collections, got %d", calls)
	}

	time.Sleep(30 * time.Millisecond)
	if provider.callCount() != calls {
		t.Error("collector kept running after Stop")
	}

	// Stop is safe to call twice
	collector.Stop()
}
