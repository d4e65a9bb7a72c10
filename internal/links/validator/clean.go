package validator

import (
	"errors"
	"fmt"

	"clearlink/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

// CleanRequestValidator checks inbound requests before they reach the
// engine. The engine has its own parse step; this layer only rejects
// obviously unusable input (missing, oversized).
type CleanRequestValidator struct {
	validate *validator.Validate
}

func NewCleanRequestValidator() *CleanRequestValidator {
	return &CleanRequestValidator{validate: validator.New()}
}

func (v *CleanRequestValidator) ValidateRequest(req *model.CleanRequest) error {
	return v.translate(v.validate.Struct(req))
}

func (v *CleanRequestValidator) ValidateBatch(req *model.BatchCleanRequest) error {
	return v.translate(v.validate.Struct(req))
}

func (v *CleanRequestValidator) ValidateMessage(msg *model.ChatMessage) error {
	return v.translate(v.validate.Struct(msg))
}

func (v *CleanRequestValidator) translate(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s entries", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
