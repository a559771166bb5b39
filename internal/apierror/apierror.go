// Package apierror provides the canonical error envelopes for all 4xx/5xx
// HTTP responses. Every client-visible error goes through this package so
// internal details (stack traces, SQL errors) never leak.
package apierror

// APIError is the standard error body.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError enumerates the offending fields of a rejected request.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}
