package catalog

import (
	"errors"
	"fmt"
)

// ErrNoPath is returned when watching a catalog that has no file.
var ErrNoPath = errors.New("catalog has no file path")

// LoadError reports a catalog file that could not be read or parsed.
type LoadError struct {
	// Path is the catalog file.
	Path string

	// Message describes the failed step.
	Message string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("catalog: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("catalog %q: %s: %v", e.Path, e.Message, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Cause
}
