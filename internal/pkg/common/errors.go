package common

import (
	"errors"
	"net/http"
)

// ErrorResponse is the API error payload.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// CustomError is an error with an API code and HTTP status.
type CustomError struct {
	Code    string
	Message string
	Err     error
	Status  int
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewError creates a new CustomError.
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Pipeline error codes. Every pipeline stage maps its failures onto one of
// these so the orchestrator can surface a user-facing sentence instead of a
// raw error chain.
const (
	ErrCodeConfig        = "CONFIG_ERROR"     // missing credentials
	ErrCodeDecode        = "DECODE_ERROR"     // malformed image payload
	ErrCodeNoInput       = "NO_INPUT"         // required upstream stage produced nothing
	ErrCodeMissingInput  = "MISSING_INPUT"    // required pipeline input absent
	ErrCodeUpstreamAuth  = "UPSTREAM_AUTH"    // HTTP 401 from an external API
	ErrCodeUpstreamQuota = "UPSTREAM_QUOTA"   // HTTP 402 / quota exhausted
	ErrCodeUpstream      = "UPSTREAM_ERROR"   // any other non-2xx or network failure
	ErrCodeFormatting    = "FORMATTING_ERROR" // fallback normalization produced nothing usable
)

// PipelineError carries a stage failure together with the plain-language
// sentence shown to the user.
type PipelineError struct {
	Code    string
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError creates a stage failure with a user-facing message.
func NewPipelineError(code, message string, err error) *PipelineError {
	return &PipelineError{Code: code, Message: message, Err: err}
}

// PipelineErrorCode extracts the pipeline code from an error chain, or ""
// when the error is not a stage failure.
func PipelineErrorCode(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// UserMessage returns the user-facing sentence for an error. Non-pipeline
// errors fall back to a generic sentence so raw error chains never reach
// the client.
func UserMessage(err error, fallback string) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Message
	}
	if fallback != "" {
		return fallback
	}
	return "An unexpected error occurred. Please try again."
}

// Predefined API error codes.
const (
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// Predefined API errors.
var (
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "Invalid request body", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "Resource not found", http.StatusNotFound, nil)
	ErrRequestTimeout  = NewError(ErrCodeRequestTimeout, "Request timeout", http.StatusGatewayTimeout, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "Too many requests", http.StatusTooManyRequests, nil)
	ErrInternalError   = NewError(ErrCodeInternalError, "Internal server error", http.StatusInternalServerError, nil)

	ErrCacheFull = NewError("CACHE_FULL", "cache is full", http.StatusServiceUnavailable, nil)
	ErrCacheMiss = NewError("CACHE_MISS", "cache miss", http.StatusNotFound, nil)
)
