package dto

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/portfolio-api/pkg/util"
)

var validate = validator.New()

// Validate runs struct tag validation and maps failures to the
// VALIDATION_FAILED error shape with per-field details.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(fieldErrors))
	for _, fe := range fieldErrors {
		details[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid payload", details)
}
