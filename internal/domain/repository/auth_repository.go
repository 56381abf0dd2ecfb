package repository

import (
	"context"

	"pricing/internal/domain/entity"
)

// AuthRepository defines the backend's authentication endpoints.
type AuthRepository interface {
	// Login exchanges credentials for an access token and the user's profile.
	// The refresh token arrives as an HTTP-only cookie and never reaches the caller.
	Login(ctx context.Context, credentials *entity.Credentials) (*entity.LoginResult, error)

	// Logout asks the backend to drop the refresh cookie.
	Logout(ctx context.Context) error

	Register(ctx context.Context, registration *entity.Registration) (*entity.Profile, error)

	// ListUsers is restricted to admins by the backend.
	ListUsers(ctx context.Context) ([]*entity.Profile, error)
}
