package domain

import "errors"

var (
	// ErrNotFound is returned when the requested principal does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether email or password failed.
	// Login never distinguishes the two to prevent account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidResetRequest is returned when no reset is in progress for the principal.
	ErrInvalidResetRequest = errors.New("invalid reset request")
	ErrInvalidOTP          = errors.New("invalid otp")
	ErrOTPExpired          = errors.New("otp expired")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrInvalidInput        = errors.New("invalid input")
	// ErrInternal covers store, mail, and hashing failures. Callers never see the cause.
	ErrInternal = errors.New("internal error")
)

// ValidationError carries a caller-safe message for malformed or missing input.
// It unwraps to ErrInvalidInput.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return ErrInvalidInput.Error() + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
