package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateTokenPair(t *testing.T) {
	service, err := NewJWTService("test-access-secret-32chars!!", "test-refresh-secret-32chars!", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	t.Run("should generate valid access and refresh tokens", func(t *testing.T) {
		userID := uuid.New().String()
		email := "scheduler-operator@example.com"
		role := "operator"

		accessToken, refreshToken, err := service.GenerateTokenPair(userID, email, role)
		require.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)

		claims, err := service.ValidateAccessToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, email, claims.Email)
		assert.Equal(t, role, claims.Role)
		assert.Equal(t, string(AccessToken), claims.TokenType)
	})

	t.Run("should validate refresh token claims", func(t *testing.T) {
		userID := uuid.New().String()
		_, refreshToken, err := service.GenerateTokenPair(userID, "test@example.com", "admin")
		require.NoError(t, err)

		claims, err := service.ValidateRefreshToken(refreshToken)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, string(RefreshToken), claims.TokenType)
	})
}

func TestJWTService_TokenValidation(t *testing.T) {
	service, err := NewJWTService("test-access-secret-32chars!!", "test-refresh-secret-32chars!", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	t.Run("should reject expired access token", func(t *testing.T) {
		shortService, _ := NewJWTService("test-access-secret-32chars!!", "test-refresh-secret-32chars!", 1*time.Millisecond, 7*24*time.Hour)

		accessToken, _, err := shortService.GenerateTokenPair(uuid.New().String(), "test@example.com", "admin")
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = shortService.ValidateAccessToken(accessToken)
		assert.Error(t, err)
		assert.Equal(t, ErrExpiredToken, err)
	})

	t.Run("should reject access token validated as refresh", func(t *testing.T) {
		accessToken, _, err := service.GenerateTokenPair(uuid.New().String(), "test@example.com", "admin")
		require.NoError(t, err)

		_, err = service.ValidateRefreshToken(accessToken)
		assert.Error(t, err)
		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("should reject refresh token validated as access", func(t *testing.T) {
		_, refreshToken, err := service.GenerateTokenPair(uuid.New().String(), "test@example.com", "admin")
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(refreshToken)
		assert.Error(t, err)
		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("should reject invalid token string", func(t *testing.T) {
		_, err := service.ValidateAccessToken("invalid-token")
		assert.Error(t, err)
		assert.Equal(t, ErrInvalidToken, err)
	})
}
