package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars!"

func TestTokenService(t *testing.T) {
	t.Run("RequiresSecret", func(t *testing.T) {
		_, err := NewTokenService(time.Hour, "issuer", "audience", "")
		assert.Error(t, err)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		svc, err := NewTokenService(time.Hour, "issuer", "audience", testSecret)
		require.NoError(t, err)

		token, err := svc.GenerateAdminToken(1)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateAdminToken(token)
		require.NoError(t, err)
		assert.Equal(t, uint(1), claims.AdminID)
		assert.NotEmpty(t, claims.TokenID)
		assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
	})

	t.Run("UniqueTokenIDs", func(t *testing.T) {
		svc, err := NewTokenService(time.Hour, "issuer", "audience", testSecret)
		require.NoError(t, err)

		first, err := svc.GenerateAdminToken(1)
		require.NoError(t, err)
		second, err := svc.GenerateAdminToken(1)
		require.NoError(t, err)

		firstClaims, err := svc.ValidateAdminToken(first)
		require.NoError(t, err)
		secondClaims, err := svc.ValidateAdminToken(second)
		require.NoError(t, err)
		assert.NotEqual(t, firstClaims.TokenID, secondClaims.TokenID)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		svc, err := NewTokenService(-time.Minute, "issuer", "audience", testSecret)
		require.NoError(t, err)

		token, err := svc.GenerateAdminToken(1)
		require.NoError(t, err)

		_, err = svc.ValidateAdminToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		svc, err := NewTokenService(time.Hour, "issuer", "audience", testSecret)
		require.NoError(t, err)
		other, err := NewTokenService(time.Hour, "issuer", "audience", "another-secret-key-also-32-chars-long")
		require.NoError(t, err)

		token, err := svc.GenerateAdminToken(1)
		require.NoError(t, err)

		_, err = other.ValidateAdminToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		svc, err := NewTokenService(time.Hour, "issuer", "audience", testSecret)
		require.NoError(t, err)

		_, err = svc.ValidateAdminToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}
