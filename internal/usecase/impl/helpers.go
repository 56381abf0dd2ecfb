package impl

import (
	"context"

	domainerrors "pricing/internal/domain/errors"
	"pricing/internal/util"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// validateInput runs struct validation and reports failures as ErrInvalidInput.
func validateInput(ctx context.Context, validate *validator.Validate, input any) error {
	if err := validate.StructCtx(ctx, input); err != nil {
		return domainerrors.ErrInvalidInput.WithDetails(util.DescribeValidationErrors(err))
	}

	return nil
}

func requireID(id int64) error {
	if id <= 0 {
		return domainerrors.ErrInvalidInput.WithDetails("id must be positive")
	}

	return nil
}

// describeError is the message shown to a consumer of a failed query.
func describeError(err error) string {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message()
	}

	return "Request failed"
}
