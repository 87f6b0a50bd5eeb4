package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"mercator-hq/switchyard/pkg/processing/content"
	"mercator-hq/switchyard/pkg/routing"
)

// Request limits.
const (
	MaxQueryLength      = 100000
	MaxFiles            = 10
	MaxPreferenceLength = 256
)

// FileRequest describes an attached file. Only metadata is sent.
type FileRequest struct {
	Type string `json:"type" validate:"required,max=255"`
	Size int64  `json:"size" validate:"gte=0"`
	Name string `json:"name" validate:"max=1024"`
}

// RouteRequest is the body of POST /v1/route.
type RouteRequest struct {
	Query      string        `json:"query" validate:"max=100000"`
	Preference string        `json:"preference,omitempty" validate:"max=256"`
	Files      []FileRequest `json:"files,omitempty" validate:"max=10,dive"`
}

// AnalyzeRequest is the body of POST /v1/analyze.
type AnalyzeRequest struct {
	Query string        `json:"query" validate:"max=100000"`
	Files []FileRequest `json:"files,omitempty" validate:"max=10,dive"`
}

// RouteResponse is a routing decision with its request ID and the one-line
// context summary.
type RouteResponse struct {
	RequestID string `json:"request_id"`
	routing.Decision
	Summary string `json:"summary"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, msg := range e.Fields {
		parts = append(parts, msg)
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// validateRequest validates a request struct and converts validator errors
// into a ValidationError keyed by namespaced field (e.g. "Files[0].Type").
func validateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Namespace()
		if i := strings.IndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		fields[name] = fieldMessage(name, fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("%s must have at most %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation on '%s'", field, fe.Tag())
	}
}

func toFileMeta(files []FileRequest) []content.FileMeta {
	if len(files) == 0 {
		return nil
	}
	out := make([]content.FileMeta, len(files))
	for i, f := range files {
		out[i] = content.FileMeta{Type: f.Type, Size: f.Size, Name: f.Name}
	}
	return out
}
