// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	businessflow "github.com/affiliatesimran0007/push-notification-app-sub001/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AuthAdminHandlerInterface defines the contract for admin auth handlers
type AuthAdminHandlerInterface interface {
	Login(c fiber.Ctx) error
}

// AuthAdminHandler handles admin authentication HTTP requests
type AuthAdminHandler struct {
	loginFlow businessflow.LoginAdminFlow
	validator *validator.Validate
}

// NewAuthAdminHandler creates a new admin auth handler
func NewAuthAdminHandler(loginFlow businessflow.LoginAdminFlow) *AuthAdminHandler {
	return &AuthAdminHandler{
		loginFlow: loginFlow,
		validator: validator.New(),
	}
}

// Login authenticates the admin and issues an access token
func (h *AuthAdminHandler) Login(c fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.loginFlow.Login(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsAdminNotFound(err) || businessflow.IsIncorrectPassword(err) {
			// One generic message for both cases
			return errorResponse(c, fiber.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS", nil)
		}

		log.Println("Admin login failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Login successful", fiber.Map{
		"message":      result.Message,
		"access_token": result.AccessToken,
		"token_type":   result.TokenType,
		"expires_in":   result.ExpiresIn,
	})
}
