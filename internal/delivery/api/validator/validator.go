// Package validator shares one go-playground validator between echo and the use cases.
package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// NewValidate creates the validator used across the process.
// Field errors are reported by their JSON names.
func NewValidate() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}

		return name
	})

	return validate
}

// EchoValidator adapts a validator to echo.Validator.
type EchoValidator struct {
	validate *validator.Validate
}

// New wraps validate for echo.
func New(validate *validator.Validate) echo.Validator {
	return &EchoValidator{validate: validate}
}

// Validate implements echo.Validator.
func (v *EchoValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
