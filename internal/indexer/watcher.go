package indexer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"static-video-server/internal/logging"
	"static-video-server/internal/metrics"
)

// watcher wraps an fsnotify watcher registered on every directory under the
// catalog root. inotify is not recursive, so new directories are added as
// their create events arrive.
type watcher struct {
	fs *fsnotify.Watcher
}

func newWatcher(root string) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &watcher{fs: fw}
	if err := w.addTree(root); err != nil {
		_ = fw.Close() // Ignore close error in error path
		return nil, err
	}
	return w, nil
}

// addTree registers dir and its subdirectories. Directory symlinks are not
// followed, matching the catalog traversal.
func (w *watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logging.Warn("Not watching %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			if path == dir {
				return err
			}
			logging.Warn("Not watching %s: %v", path, err)
		}
		return nil
	})
	metrics.WatchedDirectories.Set(float64(w.count()))
	return err
}

func (w *watcher) count() int {
	return len(w.fs.WatchList())
}

func (w *watcher) close() error {
	err := w.fs.Close()
	metrics.WatchedDirectories.Set(0)
	return err
}

// eventType returns the metrics label for an event.
func eventType(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	case op.Has(fsnotify.Write):
		return "write"
	default:
		return "chmod"
	}
}

// changesCatalog reports whether an event can add or remove catalog entries.
// Writes to existing files keep names unchanged and are ignored.
func changesCatalog(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}

// watchLoop debounces catalog-changing events into rebuilds until the indexer
// stops.
func (idx *Indexer) watchLoop(w *watcher) {
	var (
		timer    *time.Timer
		debounce <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-idx.ctx.Done():
			logging.Debug("Filesystem watcher stopped")
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			metrics.WatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()

			if !changesCatalog(event.Op) {
				continue
			}
			logging.Debug("Filesystem change: %s %s", event.Op, event.Name)

			if event.Has(fsnotify.Create) {
				if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						logging.Warn("Failed to watch new directory %s: %v", event.Name, err)
					}
				}
			}

			// Reset the quiet period on every relevant event
			if timer == nil {
				timer = time.NewTimer(idx.debounce)
			} else {
				timer.Reset(idx.debounce)
			}
			debounce = timer.C

		case <-debounce:
			debounce = nil
			logging.Info("Filesystem changes detected, rebuilding catalog")
			if err := idx.rebuild(idx.ctx, metrics.TriggerWatch); err != nil {
				logging.Error("Rebuild after filesystem change failed: %v", err)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			metrics.WatcherErrors.Inc()
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logging.Warn("Filesystem watcher overflowed, rebuilding catalog")
				if err := idx.rebuild(idx.ctx, metrics.TriggerWatch); err != nil {
					logging.Error("Rebuild after watcher overflow failed: %v", err)
				}
				continue
			}
			logging.Error("Filesystem watcher error: %v", err)
		}
	}
}
