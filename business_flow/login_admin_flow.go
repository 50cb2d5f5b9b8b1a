package businessflow

import (
	"context"
	"crypto/subtle"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	"github.com/affiliatesimran0007/push-notification-app-sub001/app/services"
	"github.com/affiliatesimran0007/push-notification-app-sub001/config"
	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
	"golang.org/x/crypto/bcrypt"
)

// LoginAdminFlow handles admin authentication
type LoginAdminFlow interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error)
}

// LoginAdminFlowImpl implements the admin login business flow
type LoginAdminFlowImpl struct {
	tokenService services.TokenService
	adminConfig  config.AdminConfig
}

// NewLoginAdminFlow creates a new admin login flow instance
func NewLoginAdminFlow(tokenService services.TokenService, adminConfig config.AdminConfig) LoginAdminFlow {
	return &LoginAdminFlowImpl{
		tokenService: tokenService,
		adminConfig:  adminConfig,
	}
}

// Login verifies admin credentials against the configured account and issues
// an access token
func (s *LoginAdminFlowImpl) Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error) {
	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.adminConfig.Username)) != 1 {
		// Run a comparison anyway so unknown usernames cost the same
		_ = bcrypt.CompareHashAndPassword([]byte(s.adminConfig.PasswordHash), []byte(req.Password))
		return nil, NewBusinessError("ADMIN_LOGIN_FAILED", "Invalid credentials", ErrAdminNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.adminConfig.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError("ADMIN_LOGIN_FAILED", "Invalid credentials", ErrIncorrectPassword)
	}

	token, err := s.tokenService.GenerateAdminToken(1)
	if err != nil {
		return nil, NewBusinessError("ADMIN_TOKEN_FAILED", "Failed to generate access token", err)
	}

	return &dto.AdminLoginResponse{
		Message:     "Login successful",
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   utils.AccessTokenTTLSeconds,
	}, nil
}
