package usecase

import (
	"context"

	"pricing/internal/domain/entity"
)

// UserUsecase defines the user directory, available to admins.
type UserUsecase interface {
	ListUsers(ctx context.Context) ([]*entity.Profile, error)
}

// CacheUsecase exposes query cache maintenance.
type CacheUsecase interface {
	// RefetchAll refetches every watched query, as on focus or reconnect, and returns how many ran.
	RefetchAll(ctx context.Context) int
}
