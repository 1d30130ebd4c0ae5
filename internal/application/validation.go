package application

import (
	"github.com/go-playground/validator/v10"

	"github.com/thermotrap/identity-service/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest checks struct tags and reports any failure with one caller-facing message.
func validateRequest(req any, message string) error {
	if err := validate.Struct(req); err != nil {
		return domain.NewValidationError(message)
	}
	return nil
}
