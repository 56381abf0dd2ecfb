// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"fmt"
	"strconv"

	"pricing/internal/domain/entity"
	"pricing/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// jwtInspector reads access-token claims. The client never holds the signing key, so
// the signature is not checked and the claims are only used for display.
type jwtInspector struct {
	parser *jwt.Parser
}

// NewJWTInspector is the constructor for jwtInspector.
func NewJWTInspector() service.TokenInspector {
	return &jwtInspector{
		parser: jwt.NewParser(),
	}
}

// Inspect decodes the token's claims. Tokens that are not JWTs return an error.
func (i *jwtInspector) Inspect(token string) (*service.TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, "failed to decode access token")
	}

	result := &service.TokenClaims{
		UserID: stringClaim(claims, "user_id"),
	}
	if result.UserID == "" {
		result.UserID = stringClaim(claims, "sub")
	}

	if userType := entity.UserType(stringClaim(claims, "user_type")); userType.IsValid() {
		result.UserType = userType
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, errors.Wrap(err, "invalid exp claim")
	}
	if exp != nil {
		expiresAt := exp.Time
		result.ExpiresAt = &expiresAt
	}

	return result, nil
}

// stringClaim accepts both string and numeric claims, since user ids are often integers.
func stringClaim(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
