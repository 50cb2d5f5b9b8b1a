package businessflow

import (
	"testing"
	"time"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	"github.com/affiliatesimran0007/push-notification-app-sub001/app/services"
	"github.com/affiliatesimran0007/push-notification-app-sub001/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newLoginFixture(t *testing.T) (LoginAdminFlow, services.TokenService) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("CorrectHorse9!"), bcrypt.MinCost)
	require.NoError(t, err)

	tokenService, err := services.NewTokenService(time.Hour, "push-notification-app", "push-notification-admin", "test-secret-key-at-least-32-chars!")
	require.NoError(t, err)

	flow := NewLoginAdminFlow(tokenService, config.AdminConfig{
		Username:     "admin",
		PasswordHash: string(hash),
	})

	return flow, tokenService
}

func TestAdminLogin(t *testing.T) {
	ctx := t.Context()
	metadata := NewClientMetadata("203.0.113.9", "test-agent")

	t.Run("Success", func(t *testing.T) {
		flow, tokenService := newLoginFixture(t)

		resp, err := flow.Login(ctx, &dto.AdminLoginRequest{
			Username: "admin",
			Password: "CorrectHorse9!",
		}, metadata)
		require.NoError(t, err)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Positive(t, resp.ExpiresIn)

		claims, err := tokenService.ValidateAdminToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(1), claims.AdminID)
		assert.NotEmpty(t, claims.TokenID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		flow, _ := newLoginFixture(t)

		_, err := flow.Login(ctx, &dto.AdminLoginRequest{
			Username: "admin",
			Password: "wrong",
		}, metadata)
		assert.True(t, IsIncorrectPassword(err))
	})

	t.Run("UnknownUsername", func(t *testing.T) {
		flow, _ := newLoginFixture(t)

		_, err := flow.Login(ctx, &dto.AdminLoginRequest{
			Username: "root",
			Password: "CorrectHorse9!",
		}, metadata)
		assert.True(t, IsAdminNotFound(err))
	})
}
