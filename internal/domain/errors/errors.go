package errors

import (
	"net/http"

	"pricing/internal/errors"
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

// WithDetails returns a copy carrying detailed error information.
// The copy still matches the original through errors.Is.
func (e *BaseError) WithDetails(details string) error {
	return &detailedError{BaseError: e, details: details}
}

type detailedError struct {
	*BaseError
	details string
}

func (e *detailedError) Details() string {
	return e.details
}

func (e *detailedError) Unwrap() error {
	return e.BaseError
}

// Client error taxonomy
var (
	// ErrNetworkUnreachable means no HTTP response was received at all.
	ErrNetworkUnreachable = NewBaseError(
		http.StatusServiceUnavailable,
		"NETWORK_UNREACHABLE",
		"The pricing service could not be reached",
		"",
	)

	// ErrAuthorizationExpired is a 401 from the pricing service.
	ErrAuthorizationExpired = NewBaseError(
		http.StatusUnauthorized,
		"AUTHORIZATION_EXPIRED",
		"Your session has expired",
		"",
	)

	// ErrAuthorizationInvalid means the session could not be renewed and was ended.
	ErrAuthorizationInvalid = NewBaseError(
		http.StatusUnauthorized,
		"AUTHORIZATION_INVALID",
		"Your session is no longer valid, please sign in again",
		"",
	)

	// ErrValidationRejected is any 4xx other than 401 and 404.
	ErrValidationRejected = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_REJECTED",
		"The request was rejected by the pricing service",
		"",
	)

	// ErrServerFault is any 5xx from the pricing service.
	ErrServerFault = NewBaseError(
		http.StatusBadGateway,
		"SERVER_FAULT",
		"The pricing service failed to process the request",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"The requested resource was not found",
		"",
	)
)

// Session errors
var (
	ErrNotAuthenticated = NewBaseError(
		http.StatusUnauthorized,
		"NOT_AUTHENTICATED",
		"Sign in to continue",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid username or password",
		"",
	)

	ErrLoginInProgress = NewBaseError(
		http.StatusConflict,
		"LOGIN_IN_PROGRESS",
		"A sign in is already in progress",
		"",
	)
)

// Input and infrastructure errors
var (
	ErrInvalidInput = NewBaseError(
		http.StatusBadRequest,
		"INVALID_INPUT",
		"Invalid input",
		"",
	)

	ErrInvalidOptimizationParams = NewBaseError(
		http.StatusBadRequest,
		"INVALID_OPTIMIZATION_PARAMS",
		"margin_target must be within [0, 1] and price_sensitivity must be positive",
		"",
	)

	ErrStorageFailed = NewBaseError(
		http.StatusInternalServerError,
		"STORAGE_FAILED",
		"Local session storage failed",
		"",
	)

	ErrMalformedResponse = NewBaseError(
		http.StatusBadGateway,
		"MALFORMED_RESPONSE",
		"The pricing service returned an unexpected response",
		"",
	)
)
