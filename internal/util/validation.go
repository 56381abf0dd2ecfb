package util

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// DescribeValidationErrors renders validator failures as "field: rule" pairs.
// Other errors are returned as their message.
func DescribeValidationErrors(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		rule := fieldErr.Tag()
		if param := fieldErr.Param(); param != "" {
			rule += "=" + param
		}
		parts = append(parts, fieldErr.Namespace()+": "+rule)
	}

	return strings.Join(parts, "; ")
}
