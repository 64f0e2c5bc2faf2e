package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages line up with the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind decodes the JSON body into dst and validates it. On failure the error
// envelope has already been written and the returned error is what the handler
// should return.
func bind(c *fiber.Ctx, dst any) (bool, error) {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(dst); err != nil {
			return false, writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		}
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return false, writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body is not valid")
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return false, writeErrorFields(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "validation failed", fields)
	}
	return true, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid"
	}
}
