package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the outcomes the catalog surface distinguishes.
var (
	// ErrNotFound means the requested entity is genuinely absent. Retrying
	// with the same key will not help.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput means the caller's input was malformed before any
	// business logic executed. Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoContent means the query was well-formed but the requested range
	// is beyond the available data. Distinct from ErrNotFound so that
	// pagination exhaustion is distinguishable from a missing entity.
	ErrNoContent = errors.New("no content")

	// ErrUpstream means the catalog store or a remote collaborator raised
	// something unexpected. Safe to retry after backoff.
	ErrUpstream = errors.New("upstream failure")
)

// AppError is a structured application error carrying an HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error for a missing entity.
func NotFound(resource string, id any) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %v not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error for a caller mistake.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// NoContent creates a 204 outcome for a well-formed query beyond the data.
func NoContent(message string) *AppError {
	return &AppError{
		Code:    "NO_CONTENT",
		Message: message,
		Status:  http.StatusNoContent,
		Err:     ErrNoContent,
	}
}

// Upstream creates a 417 error wrapping an unexpected collaborator failure.
func Upstream(err error) *AppError {
	return &AppError{
		Code:    "UPSTREAM_FAILURE",
		Message: "an upstream collaborator failed",
		Status:  http.StatusExpectationFailed,
		Err:     fmt.Errorf("%w: %w", ErrUpstream, err),
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error. Anything the
// taxonomy does not recognize maps to 417 Expectation Failed, the contract's
// catch-all for unexpected failures.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoContent):
		return http.StatusNoContent
	default:
		return http.StatusExpectationFailed
	}
}
