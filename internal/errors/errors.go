package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an application error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthorized
	KindInvalidCredentials
	KindForbidden
	KindNotFound
	KindConflict
)

// AppError is a service-level failure carrying its kind and a client-safe message.
type AppError struct {
	Kind    Kind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// New creates an application error.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func InvalidInput(message string) *AppError { return New(KindInvalidInput, message) }
func NotFound(message string) *AppError     { return New(KindNotFound, message) }
func Forbidden(message string) *AppError    { return New(KindForbidden, message) }
func Conflict(message string) *AppError     { return New(KindConflict, message) }

var (
	// ErrUnauthorized is returned when a request carries no usable identity.
	ErrUnauthorized = New(KindUnauthorized, "Unauthorized")
	// ErrNotAllowed is returned on role or ownership mismatch.
	ErrNotAllowed = Forbidden("Not allowed")
	// ErrInvalidCredentials is shared by unknown email and wrong password.
	ErrInvalidCredentials = New(KindInvalidCredentials, "Invalid credentials")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = NotFound("User not found")
	// ErrPatientNotFound is returned when a patient is not found.
	ErrPatientNotFound = NotFound("Patient not found")
	// ErrNurseNotFound is returned when the assignee is missing or not a nurse.
	ErrNurseNotFound = NotFound("Nurse not found")
	// ErrUserAlreadyExists is returned when the email is taken.
	ErrUserAlreadyExists = Conflict("User already exists")
	// ErrInvalidRole is returned when a user is provisioned with a role admins may not grant.
	ErrInvalidRole = InvalidInput("Invalid role")
)

// KindOf returns the kind of the first AppError in err's chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Message: e.Message}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unclassified errors never
// leak their message.
func MapErrorToHTTP(err error) *HTTPError {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	switch appErr.Kind {
	case KindUnauthorized, KindInvalidCredentials:
		return NewHTTPError(http.StatusUnauthorized, appErr.Message)
	case KindForbidden:
		return NewHTTPError(http.StatusForbidden, appErr.Message)
	case KindNotFound:
		return NewHTTPError(http.StatusNotFound, appErr.Message)
	case KindConflict, KindInvalidInput:
		return NewHTTPError(http.StatusBadRequest, appErr.Message)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
