package routing

import (
	"errors"
	"fmt"
)

// Common routing errors that can be checked with errors.Is().
var (
	// ErrConfiguration is returned when models, rules or router options are
	// inconsistent. It is only ever produced at load time; routing itself
	// never fails.
	ErrConfiguration = errors.New("invalid routing configuration")
)

// ConfigurationError describes a load-time inconsistency in the routing
// catalog, such as a rule targeting an unknown model.
type ConfigurationError struct {
	// Component is the kind of object at fault: "model", "rule" or "router".
	Component string

	// ID identifies the offending object (model ID, rule ID or option name).
	ID string

	// Field is the field that failed validation (optional).
	Field string

	// Reason is a human-readable explanation.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("%s %q", e.Component, e.ID)
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Reason != "" {
		msg += " " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "routing configuration: " + msg
}

// Is implements error matching for errors.Is().
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Unwrap returns the wrapped error for error chain traversal.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func ruleError(id, field, reason string) *ConfigurationError {
	return &ConfigurationError{Component: "rule", ID: id, Field: field, Reason: reason}
}
