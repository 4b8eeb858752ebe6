package engine

import (
	"errors"
	"fmt"
)

// ErrEmptyCatalog is returned by Recommend when the dataset failed to load.
// Retrieval-style calls (Search) degrade to empty results instead.
var ErrEmptyCatalog = errors.New("meal catalog is not loaded")

// ValidationError reports which profile field was missing or malformed. It is
// the only error class surfaced to the caller as a user-visible error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid profile field %q: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a profile validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
