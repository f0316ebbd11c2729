package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content_hub/internal/domain/models"
)

func TestNewTokenParse(t *testing.T) {
	user := models.User{ID: uuid.New(), Email: "admin@example.com", Role: models.RoleAdmin}

	token, issued, err := NewToken(user, "secret", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenID)

	parsed, err := Parse(token, "secret")
	require.NoError(t, err)

	assert.Equal(t, user.ID, parsed.UserID)
	assert.Equal(t, models.RoleAdmin, parsed.Role)
	assert.Equal(t, issued.TokenID, parsed.TokenID)
	assert.True(t, issued.ExpiresAt.Equal(parsed.ExpiresAt))
}

func TestParse_Rejects(t *testing.T) {
	user := models.User{ID: uuid.New(), Role: models.RoleEditor}

	valid, _, err := NewToken(user, "secret", time.Hour)
	require.NoError(t, err)

	expired, _, err := NewToken(user, "secret", -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "wrong secret", token: valid, secret: "other"},
		{name: "expired", token: expired, secret: "secret"},
		{name: "garbage", token: "not-a-token", secret: "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.token, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
