package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"edudham/internal/authz"
	"edudham/internal/models"
	"edudham/internal/xerrors"
)

const TokenLifetime = 24 * time.Hour

// Claims is the signed token payload. A token stays valid for its full
// lifetime even if the user's password or role changes afterwards.
type Claims struct {
	UserID       string      `json:"user_id"`
	Email        string      `json:"email"`
	Role         models.Role `json:"role"`
	UniversityID string      `json:"university_id,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Actor() authz.Actor {
	return authz.Actor{
		UserID:       c.UserID,
		Role:         c.Role,
		UniversityID: c.UniversityID,
	}
}

// GenerateJWT issues an HS256 token carrying the user's identity and role.
func GenerateJWT(user *models.User) (string, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET"))

	claims := &Claims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		UniversityID: user.UniversityID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ParseJWT verifies a token and returns its claims. Expiry maps to
// ErrExpiredToken, every other failure to ErrInvalidToken.
func ParseJWT(tokenString string) (*Claims, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET"))

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, xerrors.ErrInvalidToken
		}
		return jwtKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, xerrors.ErrExpiredToken
		}
		return nil, xerrors.ErrInvalidToken
	}
	if !token.Valid {
		return nil, xerrors.ErrInvalidToken
	}
	return claims, nil
}
