package validator

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/danisworo/shopapi/pkg/response"
)

// CustomValidator wraps go-playground/validator so it can be registered as
// echo's request validator.
type CustomValidator struct {
	validate *validator.Validate
}

func New() *CustomValidator {
	return &CustomValidator{validate: validator.New()}
}

// Validate implements echo.Validator. Field-level failures are returned as an
// APIError with a message per failing field so handlers can pass them
// straight to the error envelope.
func (v *CustomValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return response.InternalServerError(err)
	}

	messages := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages[strings.ToLower(fe.Field())] = fieldMessage(fe)
	}
	return response.NewError(http.StatusBadRequest, "validation_failed", messages)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters or greater", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters or less", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation on %s", fe.Tag())
	}
}
