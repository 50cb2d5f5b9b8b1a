// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strconv"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	businessflow "github.com/affiliatesimran0007/push-notification-app-sub001/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// SubscriberHandlerInterface defines the contract for subscriber handlers
type SubscriberHandlerInterface interface {
	RegisterSubscriber(c fiber.Ctx) error
	ListSubscribers(c fiber.Ctx) error
	GetSubscriber(c fiber.Ctx) error
	UpdateSubscriberStatus(c fiber.Ctx) error
	DeleteSubscriber(c fiber.Ctx) error
	ListBrowsers(c fiber.Ctx) error
}

// SubscriberHandler handles subscriber-related HTTP requests
type SubscriberHandler struct {
	subscriberFlow businessflow.SubscriberFlow
	validator      *validator.Validate
}

// NewSubscriberHandler creates a new subscriber handler
func NewSubscriberHandler(subscriberFlow businessflow.SubscriberFlow) *SubscriberHandler {
	return &SubscriberHandler{
		subscriberFlow: subscriberFlow,
		validator:      validator.New(),
	}
}

// RegisterSubscriber handles the browser push-subscription handshake
func (h *SubscriberHandler) RegisterSubscriber(c fiber.Ctx) error {
	var req dto.RegisterSubscriberRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.subscriberFlow.RegisterSubscriber(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsEndpointRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Subscription endpoint is required", "ENDPOINT_REQUIRED", nil)
		}
		if businessflow.IsSubscriptionKeysRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Subscription encryption keys are required", "SUBSCRIPTION_KEYS_REQUIRED", nil)
		}
		if businessflow.IsInvalidAccessStatus(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid access status", "INVALID_ACCESS_STATUS", nil)
		}

		log.Println("Subscriber registration failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Subscriber registration failed", "SUBSCRIBER_REGISTRATION_FAILED", nil)
	}

	statusCode := fiber.StatusOK
	if result.Created {
		statusCode = fiber.StatusCreated
	}
	return successResponse(c, statusCode, "Subscription registered successfully", fiber.Map{
		"message":       result.Message,
		"subscriber_id": result.SubscriberID,
		"created":       result.Created,
		"redirect_url":  result.RedirectURL,
	})
}

// ListSubscribers returns subscribers with filters and pagination
func (h *SubscriberHandler) ListSubscribers(c fiber.Ctx) error {
	page := 1
	if v, err := strconv.Atoi(c.Query("page", "1")); err == nil && v > 0 {
		page = v
	}
	limit := 20
	if v, err := strconv.Atoi(c.Query("limit", "20")); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	orderby := c.Query("orderby", "newest")
	browser := c.Query("browser")
	osName := c.Query("os")
	accessStatus := c.Query("access_status")
	landingIDStr := c.Query("landing_page_id")

	var filter *dto.ListSubscribersFilter
	if browser != "" || osName != "" || accessStatus != "" || landingIDStr != "" {
		filter = &dto.ListSubscribersFilter{}
		if browser != "" {
			filter.Browser = &browser
		}
		if osName != "" {
			filter.OS = &osName
		}
		if accessStatus != "" {
			filter.AccessStatus = &accessStatus
		}
		if landingIDStr != "" {
			if v, err := strconv.ParseUint(landingIDStr, 10, 32); err == nil {
				landingID := uint(v)
				filter.LandingPageID = &landingID
			}
		}
	}
	req := &dto.ListSubscribersRequest{
		Page:    page,
		Limit:   limit,
		OrderBy: orderby,
		Filter:  filter,
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.subscriberFlow.ListSubscribers(ctx, req)
	if err != nil {
		if businessflow.IsInvalidAccessStatus(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid access status filter", "INVALID_ACCESS_STATUS", nil)
		}

		log.Println("List subscribers failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list subscribers", "LIST_SUBSCRIBERS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Subscribers retrieved successfully", fiber.Map{
		"message":    result.Message,
		"items":      result.Items,
		"pagination": result.Pagination,
	})
}

// GetSubscriber returns a single subscriber by ID
func (h *SubscriberHandler) GetSubscriber(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid subscriber ID", "INVALID_SUBSCRIBER_ID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.subscriberFlow.GetSubscriber(ctx, id)
	if err != nil {
		if businessflow.IsSubscriberNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Subscriber not found", "SUBSCRIBER_NOT_FOUND", nil)
		}

		log.Println("Get subscriber failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve subscriber", "GET_SUBSCRIBER_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Subscriber retrieved successfully", result)
}

// UpdateSubscriberStatus changes the access-status flag of a subscriber
func (h *SubscriberHandler) UpdateSubscriberStatus(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid subscriber ID", "INVALID_SUBSCRIBER_ID", nil)
	}

	var req dto.UpdateSubscriberStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.SubscriberID = id

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.subscriberFlow.UpdateSubscriberStatus(ctx, &req)
	if err != nil {
		if businessflow.IsSubscriberNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Subscriber not found", "SUBSCRIBER_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidAccessStatus(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid access status", "INVALID_ACCESS_STATUS", nil)
		}

		log.Println("Subscriber status update failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Subscriber status update failed", "SUBSCRIBER_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Subscriber status updated successfully", fiber.Map{
		"message": result.Message,
	})
}

// DeleteSubscriber removes a subscriber and its delivery records
func (h *SubscriberHandler) DeleteSubscriber(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid subscriber ID", "INVALID_SUBSCRIBER_ID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.subscriberFlow.DeleteSubscriber(ctx, id); err != nil {
		if businessflow.IsSubscriberNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Subscriber not found", "SUBSCRIBER_NOT_FOUND", nil)
		}

		log.Println("Subscriber deletion failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Subscriber deletion failed", "SUBSCRIBER_DELETE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Subscriber deleted successfully", nil)
}

// ListBrowsers lists distinct browser names for targeting filter options
func (h *SubscriberHandler) ListBrowsers(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	browsers, err := h.subscriberFlow.ListBrowsers(ctx)
	if err != nil {
		log.Println("List browsers failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list browsers", "LIST_BROWSERS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Browsers retrieved successfully", fiber.Map{
		"browsers": browsers,
	})
}

// parseIDParam reads the numeric :id path parameter
func parseIDParam(c fiber.Ctx) (uint, error) {
	v, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
