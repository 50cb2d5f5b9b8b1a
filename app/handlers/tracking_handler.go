// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	businessflow "github.com/affiliatesimran0007/push-notification-app-sub001/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// TrackingHandlerInterface defines the contract for tracking handlers
type TrackingHandlerInterface interface {
	TrackEvent(c fiber.Ctx) error
}

// TrackingHandler handles service-worker tracking callbacks
type TrackingHandler struct {
	trackingFlow businessflow.TrackingFlow
	validator    *validator.Validate
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(trackingFlow businessflow.TrackingFlow) *TrackingHandler {
	return &TrackingHandler{
		trackingFlow: trackingFlow,
		validator:    validator.New(),
	}
}

// TrackEvent records a delivered, clicked, or dismissed callback
func (h *TrackingHandler) TrackEvent(c fiber.Ctx) error {
	var req dto.TrackEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.trackingFlow.TrackEvent(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidTrackingEvent(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid tracking event", "INVALID_TRACKING_EVENT", nil)
		}

		log.Println("Track event failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to record tracking event", "TRACKING_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Event recorded", fiber.Map{
		"message": result.Message,
		"counted": result.Counted,
	})
}
