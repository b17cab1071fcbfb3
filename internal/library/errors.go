package library

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an article id does not exist.
	ErrNotFound = errors.New("article not found")

	// ErrValidation is the root of every input-validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateArticle is returned by Create when an article with the same
	// title and author set already exists. It also matches ErrValidation.
	ErrDuplicateArticle = fmt.Errorf("%w: an article with this title and these authors already exists", ErrValidation)
)

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
