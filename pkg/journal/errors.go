package journal

import (
	"errors"
	"fmt"
)

var (
	// ErrRecorderClosed is returned when recording after the recorder was closed.
	ErrRecorderClosed = errors.New("journal recorder closed")

	// ErrBufferFull is returned when the recorder queue is full and a record
	// was dropped.
	ErrBufferFull = errors.New("journal buffer full")

	// ErrInvalidQuery is wrapped by every QueryError.
	ErrInvalidQuery = errors.New("invalid journal query")

	// ErrUnknownBackend is returned for a storage backend that does not exist.
	ErrUnknownBackend = errors.New("unknown journal backend")
)

// StorageError represents an error from the storage backend.
type StorageError struct {
	Backend   string // Storage backend type ("memory", "sqlite")
	Operation string // Operation that failed ("store", "query", "delete", etc.)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// QueryError represents an invalid query.
type QueryError struct {
	Field  string // Query field at fault
	Reason string
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query error [field=%s]: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidQuery.
func (e *QueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

// RecorderError represents an error while recording a decision.
type RecorderError struct {
	RequestID string // Request being recorded
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *RecorderError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("recorder error [request_id=%s]: %v", e.RequestID, e.Cause)
	}
	return fmt.Sprintf("recorder error: %v", e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RecorderError) Unwrap() error {
	return e.Cause
}

// NewRecorderError creates a new RecorderError.
func NewRecorderError(requestID string, cause error) *RecorderError {
	return &RecorderError{
		RequestID: requestID,
		Cause:     cause,
	}
}

// RetentionError represents an error during retention enforcement.
type RetentionError struct {
	Phase string // "age" or "count"
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *RetentionError) Error() string {
	return fmt.Sprintf("retention error [phase=%s]: %v", e.Phase, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RetentionError) Unwrap() error {
	return e.Cause
}

// ExportError represents an error while exporting records.
type ExportError struct {
	Format      string // "json" or "csv"
	RecordCount int    // Records in the failed export
	Cause       error  // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, records=%d]: %v", e.Format, e.RecordCount, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}
