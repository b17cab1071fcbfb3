package files

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no file exists for an article under any
	// naming scheme.
	ErrNotFound = errors.New("file not found")

	// ErrInvalidRoot is returned when a relocation target is unusable.
	ErrInvalidRoot = errors.New("invalid storage root")
)

// FileError records one failed file in a bulk operation.
type FileError struct {
	ID     string `json:"id,omitempty"`
	Path   string `json:"path"`
	Reason string `json:"error"`
}

func (e FileError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s (%s): %s", e.Path, e.ID, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func fileErr(id, path string, err error) FileError {
	return FileError{ID: id, Path: path, Reason: err.Error()}
}
