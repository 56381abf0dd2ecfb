package service

import (
	"context"

	"pricing/internal/domain/entity"
)

// TokenStore persists the access token and the signed-in profile across restarts.
// Implementations must make a write visible to every later read.
type TokenStore interface {
	// SetToken replaces the stored access token.
	SetToken(ctx context.Context, token string) error

	// Token returns the stored access token, ok is false when none is stored.
	Token(ctx context.Context) (token string, ok bool, err error)

	// SetUser replaces the stored profile.
	SetUser(ctx context.Context, profile *entity.Profile) error

	// User returns the stored profile. A missing or undecodable entry reads as no user.
	User(ctx context.Context) (profile *entity.Profile, ok bool, err error)

	// Clear removes both the token and the profile.
	Clear(ctx context.Context) error
}

// CookieResetter forgets the cookies, including the refresh cookie, held for the backend.
type CookieResetter interface {
	ResetCookies() error
}
