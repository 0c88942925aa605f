// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}

// ConflictError is the envelope for 409 responses. Existing carries the
// colliding record (e.g. the already-stored duplicate transaction) so the
// caller can inspect it and decide to skip or re-submit confirmed.
type ConflictError struct {
	Detail   string      `json:"detail"`
	Existing interface{} `json:"existing,omitempty"`
}

func NewConflict(msg string, existing interface{}) *ConflictError {
	return &ConflictError{Detail: msg, Existing: existing}
}
