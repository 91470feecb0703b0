package catalog

import (
	"fmt"

	"static-video-server/internal/mediatypes"
)

// Resolution is what the HTTP layer needs to stream a video.
type Resolution struct {
	ID          string
	Path        string
	Name        string
	ContentType string
}

// Resolve maps an identifier to its source path and content type. The
// content type comes from the identifier's own suffix.
func (s *Store) Resolve(id string) (Resolution, error) {
	entry, ok := s.Snapshot().Lookup(id)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return Resolution{
		ID:          entry.ID,
		Path:        entry.Path,
		Name:        entry.Name,
		ContentType: mediatypes.ContentType(mediatypes.Extension(id)),
	}, nil
}
