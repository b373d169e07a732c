// Package service provides business logic for the application.
package service

import "errors"

// Service errors. Handlers map these to HTTP status codes.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("missing or invalid token")
	ErrIdentityType       = errors.New("token identity is not a user id")
	ErrUserNotFound       = errors.New("user not found")
	ErrPetNotFound        = errors.New("pet not found")
)

// ValidationError describes a rejected input field. It matches ErrValidation.
type ValidationError struct {
	Message string
}

// NewValidationError returns a ValidationError with msg.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
