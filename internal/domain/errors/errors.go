// Package errors defines application errors carried across the HTTP boundary.
package errors

import (
	"net/http"

	"smartqueue/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	ErrPositionNotShared = NewBaseError(
		http.StatusPreconditionFailed,
		"POSITION_NOT_SHARED",
		"Location sharing is disabled or no position has been reported",
		"",
	)

	ErrEstimateNotFound = NewBaseError(
		http.StatusNotFound,
		"ESTIMATE_NOT_FOUND",
		"No travel estimate exists for this destination",
		"",
	)

	ErrLocalityUnresolved = NewBaseError(
		http.StatusUnprocessableEntity,
		"LOCALITY_UNRESOLVED",
		"Coordinates could not be matched to a known locality",
		"",
	)

	ErrEstimateFailed = NewBaseError(
		http.StatusInternalServerError,
		"ESTIMATE_FAILED",
		"Travel time estimation failed",
		"",
	)

	ErrDatabaseExecute = NewBaseError(
		http.StatusInternalServerError,
		"DATABASE_ERROR",
		"Database operation failed",
		"",
	)
)

// NewDatabaseExecuteError wraps a database error with context details.
func NewDatabaseExecuteError(err error, details string) *BaseError {
	return ErrDatabaseExecute.WithDetails(details + ": " + err.Error())
}
