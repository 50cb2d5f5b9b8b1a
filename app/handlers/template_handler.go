// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	businessflow "github.com/affiliatesimran0007/push-notification-app-sub001/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// TemplateHandlerInterface defines the contract for template handlers
type TemplateHandlerInterface interface {
	CreateTemplate(c fiber.Ctx) error
	UpdateTemplate(c fiber.Ctx) error
	GetTemplate(c fiber.Ctx) error
	ListTemplates(c fiber.Ctx) error
	DeleteTemplate(c fiber.Ctx) error
}

// TemplateHandler handles message-template HTTP requests
type TemplateHandler struct {
	templateFlow businessflow.TemplateFlow
	validator    *validator.Validate
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateFlow businessflow.TemplateFlow) *TemplateHandler {
	return &TemplateHandler{
		templateFlow: templateFlow,
		validator:    validator.New(),
	}
}

// CreateTemplate creates a new message template
func (h *TemplateHandler) CreateTemplate(c fiber.Ctx) error {
	var req dto.CreateTemplateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.templateFlow.CreateTemplate(ctx, &req)
	if err != nil {
		if businessflow.IsTemplateNameExists(err) {
			return errorResponse(c, fiber.StatusConflict, "Template name already exists", "TEMPLATE_NAME_EXISTS", nil)
		}

		log.Println("Template creation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Template creation failed", "TEMPLATE_CREATION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Template created successfully", fiber.Map{
		"message": result.Message,
		"id":      result.ID,
	})
}

// UpdateTemplate updates an existing template
func (h *TemplateHandler) UpdateTemplate(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid template ID", "INVALID_TEMPLATE_ID", nil)
	}

	var req dto.UpdateTemplateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.ID = id

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.templateFlow.UpdateTemplate(ctx, &req)
	if err != nil {
		if businessflow.IsTemplateNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Template not found", "TEMPLATE_NOT_FOUND", nil)
		}

		log.Println("Template update failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Template update failed", "TEMPLATE_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Template updated successfully", fiber.Map{
		"message": result.Message,
	})
}

// GetTemplate returns a single template by ID
func (h *TemplateHandler) GetTemplate(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid template ID", "INVALID_TEMPLATE_ID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.templateFlow.GetTemplate(ctx, id)
	if err != nil {
		if businessflow.IsTemplateNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Template not found", "TEMPLATE_NOT_FOUND", nil)
		}

		log.Println("Get template failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve template", "GET_TEMPLATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Template retrieved successfully", result)
}

// ListTemplates returns all templates
func (h *TemplateHandler) ListTemplates(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.templateFlow.ListTemplates(ctx)
	if err != nil {
		log.Println("List templates failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list templates", "LIST_TEMPLATES_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Templates retrieved successfully", fiber.Map{
		"message": result.Message,
		"items":   result.Items,
	})
}

// DeleteTemplate removes a template
func (h *TemplateHandler) DeleteTemplate(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid template ID", "INVALID_TEMPLATE_ID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.templateFlow.DeleteTemplate(ctx, id); err != nil {
		if businessflow.IsTemplateNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Template not found", "TEMPLATE_NOT_FOUND", nil)
		}

		log.Println("Template deletion failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Template deletion failed", "TEMPLATE_DELETE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Template deleted successfully", nil)
}
