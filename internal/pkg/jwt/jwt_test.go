package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := NewJWTService("secret", "1h", "24h")

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "admin", true)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims, err := parsed.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "admin", claims["username"])
	assert.Equal(t, true, claims["is_admin"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestParseRefreshToken(t *testing.T) {
	svc := NewJWTService("secret", "1h", "24h")

	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	userID, err := svc.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	t.Run("access token is not a refresh token", func(t *testing.T) {
		access, _, err := svc.GenerateAccessToken("user-1", "admin", true)
		require.NoError(t, err)
		_, err = svc.ParseRefreshToken(access)
		assert.Error(t, err)
	})

	t.Run("other secret", func(t *testing.T) {
		_, err := NewJWTService("other", "1h", "24h").ParseRefreshToken(refresh)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTService("secret", "1h", "24h").(*JWTService)
		expired.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
		old, _, err := expired.GenerateRefreshToken("user-1")
		require.NoError(t, err)
		_, err = svc.ParseRefreshToken(old)
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, _, err := NewJWTService("secret", "1h", "soon").GenerateRefreshToken("user-1")
		assert.Error(t, err)
	})
}
