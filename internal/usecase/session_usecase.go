// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"pricing/internal/domain/entity"
)

// SessionUsecase defines the interface for the client's authentication state.
type SessionUsecase interface {
	// Current returns a snapshot of the session.
	Current(ctx context.Context) *entity.Session

	// RequireAuthenticated returns the session or ErrNotAuthenticated.
	RequireAuthenticated(ctx context.Context) (*entity.Session, error)

	// Login exchanges credentials for a token and profile, persisting both.
	Login(ctx context.Context, credentials *entity.Credentials) (*entity.Session, error)

	// Logout clears the token store, the session and the whole query cache.
	Logout(ctx context.Context) error

	// Register creates an account. It does not sign the new user in.
	Register(ctx context.Context, registration *entity.Registration) (*entity.Profile, error)
}
