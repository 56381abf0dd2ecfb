package service

import (
	"time"

	"pricing/internal/domain/entity"
)

// TokenClaims are the claims the client can read from an access token.
type TokenClaims struct {
	UserID    string
	UserType  entity.UserType
	ExpiresAt *time.Time
}

// TokenInspector reads claims from an access token without verifying its signature.
// The backend remains the only authority on token validity.
type TokenInspector interface {
	Inspect(token string) (*TokenClaims, error)
}
