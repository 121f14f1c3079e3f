package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// FieldError is one failed validation rule, shaped for JSON responses.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func formatValidationErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make([]FieldError, len(ve))
	for i, fe := range ve {
		msg := fmt.Sprintf("%s is invalid", fe.Field())
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", fe.Field())
		case "email":
			msg = fmt.Sprintf("%s must be a valid email address", fe.Field())
		case "min":
			msg = fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
		}
		out[i] = FieldError{Field: fe.Field(), Message: msg}
	}
	return out
}

// parseAndValidate decodes the JSON body into dst and runs struct validation,
// writing the 400 response itself on failure.
func parseAndValidate(c *fiber.Ctx, dst interface{}) (ok bool, err error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := validate.Struct(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": formatValidationErrors(err),
		})
	}
	return true, nil
}
