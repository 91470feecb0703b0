package catalog

import (
	"io/fs"
	"path/filepath"

	"static-video-server/internal/filesystem"
	"static-video-server/internal/logging"
	"static-video-server/internal/mediatypes"
)

// File is a recognized video found by a build, in traversal order.
type File struct {
	// Path is the filesystem path, the root joined with Name.
	Path string
	// Name is the root-relative path with forward slashes.
	Name string
	Ext  string
}

// BuildStats summarizes one traversal.
type BuildStats struct {
	Directories int
	FilesSeen   int
	Matched     int
	Skipped     int
}

// Builder walks a root directory and collects recognized video files.
type Builder struct {
	Retry filesystem.RetryConfig
}

// NewBuilder returns a Builder using the default NFS retry policy.
func NewBuilder() *Builder {
	return &Builder{Retry: filesystem.DefaultRetryConfig()}
}

// Build walks root with a default Builder.
func Build(root string) ([]File, error) {
	files, _, err := NewBuilder().Build(root)
	return files, err
}

// Build walks root depth-first in name order. Any directory that cannot be
// read aborts the build with an *IOError; no partial result is returned.
func (b *Builder) Build(root string) ([]File, BuildStats, error) {
	w := walk{retry: b.Retry}
	if err := w.visit(root, ""); err != nil {
		return nil, w.stats, err
	}
	return w.files, w.stats, nil
}

type walk struct {
	retry filesystem.RetryConfig
	files []File
	stats BuildStats
}

func (w *walk) visit(dir, rel string) error {
	entries, err := filesystem.ReadDirWithRetry(dir, w.retry)
	if err != nil {
		return &IOError{Op: filesystem.OpReadDir, Path: dir, Err: err}
	}
	w.stats.Directories++

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)
		relName := name
		if rel != "" {
			relName = rel + "/" + name
		}

		if entry.IsDir() {
			if err := w.visit(path, relName); err != nil {
				return err
			}
			continue
		}

		if !w.isFile(path, entry) {
			w.stats.Skipped++
			continue
		}
		w.stats.FilesSeen++

		if !mediatypes.IsRecognized(name) {
			continue
		}

		w.files = append(w.files, File{
			Path: path,
			Name: relName,
			Ext:  mediatypes.Extension(name),
		})
		w.stats.Matched++
	}

	return nil
}

// isFile reports whether entry should be treated as a file. Symbolic links
// count when they resolve to a regular file; links to directories are never
// followed.
func (w *walk) isFile(path string, entry fs.DirEntry) bool {
	mode := entry.Type()
	if mode.IsRegular() {
		return true
	}
	if mode&fs.ModeSymlink == 0 {
		return false
	}

	info, err := filesystem.StatWithRetry(path, w.retry)
	if err != nil {
		logging.Warn("Skipping dangling symlink %s: %v", path, err)
		return false
	}
	if info.IsDir() {
		logging.Debug("Not following directory symlink %s", path)
		return false
	}
	return info.Mode().IsRegular()
}
