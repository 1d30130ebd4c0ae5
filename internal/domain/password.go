package domain

import "fmt"

// maxPasswordBytes is the bcrypt input limit; bcrypt rejects longer inputs.
const maxPasswordBytes = 72

// ValidatePassword checks a new password against the bcrypt ceiling and, when
// minLength is positive, a minimum length. minLength <= 0 disables the minimum.
func ValidatePassword(password string, minLength int) error {
	if password == "" {
		return NewValidationError("password is required")
	}
	if minLength > 0 && len(password) < minLength {
		return NewValidationError(fmt.Sprintf("password must be at least %d characters", minLength))
	}
	if len(password) > maxPasswordBytes {
		return NewValidationError(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}
