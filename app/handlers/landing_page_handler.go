// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	businessflow "github.com/affiliatesimran0007/push-notification-app-sub001/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// LandingPageHandlerInterface defines the contract for landing page handlers
type LandingPageHandlerInterface interface {
	CreateLandingPage(c fiber.Ctx) error
	UpdateLandingPage(c fiber.Ctx) error
	GetLandingPage(c fiber.Ctx) error
	ListLandingPages(c fiber.Ctx) error
	DeleteLandingPage(c fiber.Ctx) error
}

// LandingPageHandler handles landing-page HTTP requests
type LandingPageHandler struct {
	landingFlow businessflow.LandingPageFlow
	validator   *validator.Validate
}

// NewLandingPageHandler creates a new landing page handler
func NewLandingPageHandler(landingFlow businessflow.LandingPageFlow) *LandingPageHandler {
	return &LandingPageHandler{
		landingFlow: landingFlow,
		validator:   validator.New(),
	}
}

// CreateLandingPage creates a new landing page
func (h *LandingPageHandler) CreateLandingPage(c fiber.Ctx) error {
	var req dto.CreateLandingPageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.landingFlow.CreateLandingPage(ctx, &req)
	if err != nil {
		if businessflow.IsLandingPageExists(err) {
			return errorResponse(c, fiber.StatusConflict, "Landing page already exists", "LANDING_PAGE_EXISTS", nil)
		}

		log.Println("Landing page creation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Landing page creation failed", "LANDING_PAGE_CREATION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Landing page created successfully", fiber.Map{
		"message": result.Message,
		"id":      result.ID,
	})
}

// UpdateLandingPage updates an existing landing page
func (h *LandingPageHandler) UpdateLandingPage(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid landing page ID", "INVALID_LANDING_PAGE_ID", nil)
	}

	var req dto.UpdateLandingPageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.ID = id

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.landingFlow.UpdateLandingPage(ctx, &req)
	if err != nil {
		if businessflow.IsLandingPageNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Landing page not found", "LANDING_PAGE_NOT_FOUND", nil)
		}

		log.Println("Landing page update failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Landing page update failed", "LANDING_PAGE_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Landing page updated successfully", fiber.Map{
		"message": result.Message,
	})
}

// GetLandingPage returns a single landing page by ID
func (h *LandingPageHandler) GetLandingPage(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid landing page ID", "INVALID_LANDING_PAGE_ID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.landingFlow.GetLandingPage(ctx, id)
	if err != nil {
		if businessflow.IsLandingPageNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Landing page not found", "LANDING_PAGE_NOT_FOUND", nil)
		}

		log.Println("Get landing page failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve landing page", "GET_LANDING_PAGE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Landing page retrieved successfully", result)
}

// ListLandingPages returns all landing pages
func (h *LandingPageHandler) ListLandingPages(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.landingFlow.ListLandingPages(ctx)
	if err != nil {
		log.Println("List landing pages failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list landing pages", "LIST_LANDING_PAGES_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Landing pages retrieved successfully", fiber.Map{
		"message": result.Message,
		"items":   result.Items,
	})
}

// DeleteLandingPage removes a landing page
func (h *LandingPageHandler) DeleteLandingPage(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid landing page ID", "INVALID_LANDING_PAGE_ID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.landingFlow.DeleteLandingPage(ctx, id); err != nil {
		if businessflow.IsLandingPageNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Landing page not found", "LANDING_PAGE_NOT_FOUND", nil)
		}

		log.Println("Landing page deletion failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Landing page deletion failed", "LANDING_PAGE_DELETE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Landing page deleted successfully", nil)
}
