package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

func filesFor(names ...string) []File {
	files := make([]File, len(names))
	for i, n := range names {
		files[i] = File{Path: filepath.Join("/videos", n), Name: n, Ext: filepath.Ext(n)[1:]}
	}
	return files
}

func TestNewStoreIsEmpty(t *testing.T) {
	s := NewStore()
	gen := s.Snapshot()

	if gen == nil {
		t.Fatal("Snapshot should never be nil")
	}
	if gen.Number != 0 {
		t.Errorf("Number = %d, want 0", gen.Number)
	}
	if gen.Len() != 0 {
		t.Errorf("Len = %d, want 0", gen.Len())
	}
	if _, err := s.Lookup("0.mp4"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestReplaceAssignsContiguousIdentifiers(t *testing.T) {
	s := NewStore()
	gen := s.Replace("/videos", filesFor("a.mp4", "sub/b.mkv", "c.avi"))

	wantIDs := []string{"0.mp4", "1.mkv", "2.avi"}
	for i, e := range gen.Entries {
		if e.ID != wantIDs[i] {
			t.Errorf("Entries[%d].ID = %q, want %q", i, e.ID, wantIDs[i])
		}
	}

	seen := map[string]bool{}
	for _, e := range gen.Entries {
		if seen[e.ID] {
			t.Errorf("Duplicate identifier %q", e.ID)
		}
		seen[e.ID] = true
	}

	path, err := s.Lookup("1.mkv")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if path != filepath.Join("/videos", "sub/b.mkv") {
		t.Errorf("Lookup path = %q", path)
	}
	if gen.Root != "/videos" {
		t.Errorf("Root = %q", gen.Root)
	}
}

func TestReplaceResetsSequenceAndBumpsGeneration(t *testing.T) {
	s := NewStore()
	first := s.Replace("/videos", filesFor("a.mp4", "b.mkv"))
	second := s.Replace("/videos", filesFor("c.avi"))

	if first.Number != 1 || second.Number != 2 {
		t.Errorf("generation numbers = %d, %d, want 1, 2", first.Number, second.Number)
	}
	if second.Entries[0].ID != "0.avi" {
		t.Errorf("sequence not reset: %q", second.Entries[0].ID)
	}
	if _, err := s.Lookup("1.mkv"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old generation entry still visible: %v", err)
	}
	// The earlier snapshot is untouched
	if _, ok := first.Lookup("1.mkv"); !ok {
		t.Error("published generations must be immutable")
	}
}

func TestLookupUnknownIdentifier(t *testing.T) {
	s := NewStore()
	s.Replace("/videos", filesFor("a.mp4", "sub/b.mkv"))

	for _, id := range []string{"5.mp4", "", "0.mkv", "../etc/passwd", "0"} {
		_, err := s.Lookup(id)
		if !IsNotFound(err) {
			t.Errorf("Lookup(%q) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestResolve(t *testing.T) {
	s := NewStore()
	s.Replace("/videos", filesFor("a.mp4", "sub/b.mkv"))

	res, err := s.Resolve("1.mkv")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.ContentType != "video/mkv" {
		t.Errorf("ContentType = %q, want video/mkv", res.ContentType)
	}
	if res.Name != "sub/b.mkv" {
		t.Errorf("Name = %q", res.Name)
	}
	if res.Path != filepath.Join("/videos", "sub/b.mkv") {
		t.Errorf("Path = %q", res.Path)
	}

	if _, err := s.Resolve("5.mp4"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStats(t *testing.T) {
	s := NewStore()
	s.Replace("/videos", filesFor("a.mp4", "b.mp4", "c.mkv"))

	stats := s.Stats()
	if stats.Entries != 3 || stats.Generation != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByExtension["mp4"] != 2 || stats.ByExtension["mkv"] != 1 {
		t.Errorf("ByExtension = %v", stats.ByExtension)
	}
	if got := fmt.Sprint(stats.Extensions()); got != "[mkv mp4]" {
		t.Errorf("Extensions() = %s", got)
	}
}

// Readers running against concurrent replacements must always see one whole
// generation: an entry count and identifier set belonging to a single build.
func TestConcurrentReadersSeeWholeGenerations(t *testing.T) {
	s := NewStore()
	small := filesFor("a.mp4", "b.mkv")
	large := filesFor("a.mp4", "b.mkv", "c.avi", "d.mov", "e.webm")
	s.Replace("/videos", small)

	var stop atomic.Bool
	var wg sync.WaitGroup
	errs := make(chan string, 16)

	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !stop.Load() {
				gen := s.Snapshot()
				n := gen.Len()
				if n != len(small) && n != len(large) {
					errs <- fmt.Sprintf("unexpected entry count %d", n)
					return
				}
				for i, e := range gen.Entries {
					if want := fmt.Sprintf("%d.%s", i, e.Ext); e.ID != want {
						errs <- fmt.Sprintf("entry %d has id %q, want %q", i, e.ID, want)
						return
					}
					if got, ok := gen.Lookup(e.ID); !ok || got != e {
						errs <- fmt.Sprintf("index mismatch for %q", e.ID)
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 500; i++ {
		if i%2 == 0 {
			s.Replace("/videos", large)
		} else {
			s.Replace("/videos", small)
		}
	}
	stop.Store(true)
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
	if got := s.Snapshot().Number; got != 501 {
		t.Errorf("final generation = %d, want 501", got)
	}
}
