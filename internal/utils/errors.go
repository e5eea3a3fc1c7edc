package utils

import "fmt"

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound  = "NOT_FOUND"
	ErrDuplicate = "DUPLICATE"

	// Rejected before any write is attempted
	ErrValidation = "VALIDATION_FAILURE"

	// Authentication errors
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrInvalidToken    = "INVALID_TOKEN"
	ErrForbidden       = "FORBIDDEN" // Authenticated but not the owner

	// User-specific errors
	ErrUserNotFound       = "USER_NOT_FOUND"
	ErrUserAlreadyExists  = "USER_ALREADY_EXISTS"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// Backend store errors
	ErrStoreFailure = "STORE_FAILURE"
	ErrDecode       = "DECODE_ERROR" // Store returned a document we couldn't decode

	// Actor communication errors
	ErrActorTimeout = "ACTOR_TIMEOUT"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// Specific error creators for common cases
func NewUnauthenticatedError(reason string) *AppError {
	return &AppError{
		Code:    ErrUnauthenticated,
		Message: "Not signed in: " + reason,
	}
}

func NewValidationError(reason string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: reason,
	}
}

func NewDecodeError(collection string, originalErr error) *AppError {
	return &AppError{
		Code:    ErrDecode,
		Message: fmt.Sprintf("Malformed document in %s", collection),
		Origin:  originalErr,
	}
}

func NewActorTimeoutError(actorName string) *AppError {
	return &AppError{
		Code:    ErrActorTimeout,
		Message: "Actor communication timeout: " + actorName,
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound, ErrUserNotFound:
		return 404 // http.StatusNotFound
	case ErrValidation, ErrInvalidCredentials:
		return 400 // http.StatusBadRequest
	case ErrUnauthenticated, ErrInvalidToken:
		return 401 // http.StatusUnauthorized
	case ErrForbidden:
		return 403 // http.StatusForbidden
	case ErrDuplicate, ErrUserAlreadyExists:
		return 409 // http.StatusConflict
	case ErrStoreFailure, ErrDecode, ErrActorTimeout:
		return 500 // http.StatusInternalServerError
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}
