package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Entry is one cataloged video.
type Entry struct {
	ID   string `json:"id"`
	Path string `json:"-"`
	Name string `json:"name"`
	Ext  string `json:"ext"`
}

// Generation is an immutable catalog snapshot produced by one build.
type Generation struct {
	Number  uint64
	Root    string
	Entries []Entry
	BuiltAt time.Time

	index map[string]int
}

// Len returns the number of entries.
func (g *Generation) Len() int {
	return len(g.Entries)
}

// Lookup returns the entry with the given identifier.
func (g *Generation) Lookup(id string) (Entry, bool) {
	i, ok := g.index[id]
	if !ok {
		return Entry{}, false
	}
	return g.Entries[i], true
}

// Stats holds per-generation counts for metrics.
type Stats struct {
	Generation  uint64
	Entries     int
	ByExtension map[string]int
}

// Store holds the live catalog generation.
type Store struct {
	current atomic.Pointer[Generation]

	// writeMu orders publishers so generation numbers stay monotonic.
	// Readers never take it.
	writeMu sync.Mutex
}

// NewStore returns a store holding an empty generation numbered 0.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&Generation{index: map[string]int{}})
	return s
}

// Snapshot returns the current generation.
func (s *Store) Snapshot() *Generation {
	return s.current.Load()
}

// Replace numbers files in order and publishes them as the next generation.
func (s *Store) Replace(root string, files []File) *Generation {
	gen := &Generation{
		Root:    root,
		Entries: make([]Entry, len(files)),
		BuiltAt: time.Now(),
		index:   make(map[string]int, len(files)),
	}

	for i, f := range files {
		id := strconv.Itoa(i) + "." + f.Ext
		gen.Entries[i] = Entry{ID: id, Path: f.Path, Name: f.Name, Ext: f.Ext}
		gen.index[id] = i
	}

	s.writeMu.Lock()
	gen.Number = s.current.Load().Number + 1
	s.current.Store(gen)
	s.writeMu.Unlock()

	return gen
}

// Lookup returns the source path for id.
func (s *Store) Lookup(id string) (string, error) {
	entry, ok := s.Snapshot().Lookup(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entry.Path, nil
}

// Stats counts the entries of the current generation by extension.
func (s *Store) Stats() Stats {
	gen := s.Snapshot()
	stats := Stats{
		Generation:  gen.Number,
		Entries:     gen.Len(),
		ByExtension: make(map[string]int),
	}
	for _, e := range gen.Entries {
		stats.ByExtension[e.Ext]++
	}
	return stats
}

// Extensions returns the extensions present in stats in sorted order.
func (st Stats) Extensions() []string {
	exts := make([]string, 0, len(st.ByExtension))
	for ext := range st.ByExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
