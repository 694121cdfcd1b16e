package apperrors

import (
	"errors"
	"fmt"
)

// Resource errors
var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource already exists")

	ErrUsernameTaken = fmt.Errorf("%w: username already taken", ErrConflict)
	ErrReviewExists  = fmt.Errorf("%w: you have already reviewed this teacher", ErrConflict)
)

// Authentication errors
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

// Validation and state errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidImage     = errors.New("invalid image")
	ErrAlreadySetUp     = errors.New("account is already set up")
	ErrSetupRequired    = errors.New("account setup is required")
)

// NewNotFoundError creates a new custom error for a missing resource with a message
func NewNotFoundError(message string) error {
	return &CustomError{Err: ErrNotFound, Message: message}
}

// NewConflictError creates a new custom error for uniqueness conflicts with a message
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewValidationError creates a new custom error for rejected input with a message
func NewValidationError(message string) error {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}

// NewUnauthenticatedError creates a new custom error for a missing or unusable identity
func NewUnauthenticatedError(message string) error {
	return &CustomError{Err: ErrUnauthenticated, Message: message}
}

// NewInvalidImageError creates a new custom error for a rejected upload
func NewInvalidImageError(message string) error {
	return &CustomError{Err: ErrInvalidImage, Message: message}
}

// CustomError carries a client-facing message on top of a sentinel
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}
