package server

import (
	"encoding/json"
	"net/http"
)

// Error types returned in error responses.
const (
	errTypeInvalidRequest   = "invalid_request"
	errTypeValidation       = "validation_error"
	errTypeNotFound         = "not_found"
	errTypeMethodNotAllowed = "method_not_allowed"
	errTypeDisabled         = "journal_disabled"
	errTypeTooLarge         = "request_too_large"
	errTypeUnauthorized     = "unauthorized"
	errTypeRateLimited      = "rate_limited"
	errTypeInternal         = "internal_error"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes an error.
type ErrorDetail struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Type: errType, Message: message}})
}

func writeValidationError(w http.ResponseWriter, err *ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
		Type:    errTypeValidation,
		Message: "request failed validation",
		Fields:  err.Fields,
	}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
