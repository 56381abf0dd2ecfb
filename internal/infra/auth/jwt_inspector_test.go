package auth

import (
	"testing"
	"time"

	"pricing/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret-the-client-never-sees"))
	require.NoError(t, err)

	return token
}

func TestJWTInspector_Inspect(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	token := signTestToken(t, jwt.MapClaims{
		"user_id":    42,
		"user_type":  "analyst",
		"token_type": "access",
		"exp":        exp.Unix(),
	})

	claims, err := NewJWTInspector().Inspect(token)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, entity.UserTypeAnalyst, claims.UserType)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, exp.Equal(*claims.ExpiresAt))
}

func TestJWTInspector_ExpiredTokenStillDecodes(t *testing.T) {
	token := signTestToken(t, jwt.MapClaims{
		"sub": "7",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	claims, err := NewJWTInspector().Inspect(token)
	require.NoError(t, err)

	assert.Equal(t, "7", claims.UserID)
	assert.Empty(t, claims.UserType)
	assert.True(t, claims.ExpiresAt.Before(time.Now()))
}

func TestJWTInspector_RejectsOpaqueToken(t *testing.T) {
	_, err := NewJWTInspector().Inspect("T1")
	assert.Error(t, err)
}
