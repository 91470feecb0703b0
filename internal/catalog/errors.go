package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an identifier is not part of the current
// generation.
var ErrNotFound = errors.New("video not found")

// IOError reports a filesystem failure that aborted a catalog build.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("catalog %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means an unknown identifier.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
