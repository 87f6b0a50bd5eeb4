package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateModel is returned when two descriptors share an ID.
	ErrDuplicateModel = errors.New("duplicate model identifier")

	// ErrInvalidModel is returned when a descriptor fails validation.
	ErrInvalidModel = errors.New("invalid model descriptor")
)

// InvalidModelError describes a descriptor that cannot be registered.
type InvalidModelError struct {
	// ModelID is the offending descriptor ID (may be empty).
	ModelID string

	// Field is the descriptor field that failed validation.
	Field string

	// Reason is a human-readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *InvalidModelError) Error() string {
	return fmt.Sprintf("model %q: %s %s", e.ModelID, e.Field, e.Reason)
}

// Is implements error matching for errors.Is().
func (e *InvalidModelError) Is(target error) bool {
	return target == ErrInvalidModel
}

// DuplicateModelError is returned when a registry would contain two
// descriptors with the same ID.
type DuplicateModelError struct {
	ModelID string
}

// Error implements the error interface.
func (e *DuplicateModelError) Error() string {
	return fmt.Sprintf("model %q is defined more than once", e.ModelID)
}

// Is implements error matching for errors.Is().
func (e *DuplicateModelError) Is(target error) bool {
	return target == ErrDuplicateModel
}
