package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudham/internal/models"
	"edudham/internal/xerrors"
)

func TestGenerateAndParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{
		ID:           "user-1",
		Email:        "manager@example.com",
		Role:         models.RoleManager,
		UniversityID: "uni-a",
	}

	token, err := GenerateJWT(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "manager@example.com", claims.Email)
	assert.Equal(t, models.RoleManager, claims.Role)
	assert.Equal(t, "uni-a", claims.UniversityID)

	actor := claims.Actor()
	assert.Equal(t, "user-1", actor.UserID)
	assert.Equal(t, "uni-a", actor.UniversityID)
}

func TestParseJWTExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ParseJWT(token)
	assert.True(t, errors.Is(err, xerrors.ErrExpiredToken))
}

func TestParseJWTInvalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("garbage token", func(t *testing.T) {
		_, err := ParseJWT("not-a-token")
		assert.True(t, errors.Is(err, xerrors.ErrInvalidToken))
	})

	t.Run("wrong signing key", func(t *testing.T) {
		user := &models.User{ID: "user-1", Role: models.RoleStudent}
		token, err := GenerateJWT(user)
		require.NoError(t, err)

		t.Setenv("JWT_SECRET", "different-secret")
		_, err = ParseJWT(token)
		assert.True(t, errors.Is(err, xerrors.ErrInvalidToken))
	})
}
