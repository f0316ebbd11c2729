package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"content_hub/internal/domain/models"
)

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	UserID string      `json:"uid"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// NewToken signs an access token for user valid for duration. Every token
// carries its own id so it can be revoked alone.
func NewToken(user models.User, secret string, duration time.Duration) (string, models.TokenClaims, error) {
	now := time.Now()
	tc := models.TokenClaims{
		UserID:    user.ID,
		Role:      user.Role,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(duration).Truncate(time.Second),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: tc.UserID.String(),
		Role:   tc.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tc.TokenID,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(tc.ExpiresAt),
		},
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", models.TokenClaims{}, err
	}

	return signed, tc, nil
}

// Parse verifies the signature and expiry of tokenString.
func Parse(tokenString, secret string) (models.TokenClaims, error) {
	var c claims

	_, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return models.TokenClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	uid, err := uuid.Parse(c.UserID)
	if err != nil {
		return models.TokenClaims{}, fmt.Errorf("%w: uid: %w", ErrInvalidToken, err)
	}

	return models.TokenClaims{
		UserID:    uid,
		Role:      c.Role,
		TokenID:   c.ID,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
