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

// CampaignHandlerInterface defines the contract for campaign handlers
type CampaignHandlerInterface interface {
	CreateCampaign(c fiber.Ctx) error
	UpdateCampaign(c fiber.Ctx) error
	GetCampaign(c fiber.Ctx) error
	ListCampaigns(c fiber.Ctx) error
	DeleteCampaign(c fiber.Ctx) error
	SendCampaign(c fiber.Ctx) error
	GetCampaignStats(c fiber.Ctx) error
	EstimateAudience(c fiber.Ctx) error
}

// CampaignHandler handles campaign-related HTTP requests
type CampaignHandler struct {
	campaignFlow businessflow.CampaignFlow
	validator    *validator.Validate
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignFlow businessflow.CampaignFlow) *CampaignHandler {
	return &CampaignHandler{
		campaignFlow: campaignFlow,
		validator:    validator.New(),
	}
}

// CreateCampaign handles the campaign creation process
func (h *CampaignHandler) CreateCampaign(c fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.campaignFlow.CreateCampaign(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsScheduleTimeInPast(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Schedule time must be in the future", "SCHEDULE_TIME_IN_PAST", nil)
		}
		if businessflow.IsInvalidTargetType(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid target type", "INVALID_TARGET_TYPE", nil)
		}
		if businessflow.IsTargetLandingNotFound(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Target landing page not found", "TARGET_LANDING_NOT_FOUND", nil)
		}

		log.Println("Campaign creation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Campaign creation failed", "CAMPAIGN_CREATION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Campaign created successfully", fiber.Map{
		"message":    result.Message,
		"uuid":       result.UUID,
		"status":     result.Status,
		"created_at": result.CreatedAt,
	})
}

// UpdateCampaign handles the campaign update process
func (h *CampaignHandler) UpdateCampaign(c fiber.Ctx) error {
	campaignUUID := c.Params("uuid")
	if campaignUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required", "MISSING_CAMPAIGN_UUID", nil)
	}

	var req dto.UpdateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = campaignUUID

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.campaignFlow.UpdateCampaign(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignNotEditable(err) {
			return errorResponse(c, fiber.StatusConflict, "Campaign can no longer be edited", "CAMPAIGN_NOT_EDITABLE", nil)
		}
		if businessflow.IsScheduleTimeInPast(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Schedule time must be in the future", "SCHEDULE_TIME_IN_PAST", nil)
		}
		if businessflow.IsInvalidTargetType(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid target type", "INVALID_TARGET_TYPE", nil)
		}
		if businessflow.IsTargetLandingNotFound(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Target landing page not found", "TARGET_LANDING_NOT_FOUND", nil)
		}

		log.Println("Campaign update failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Campaign update failed", "CAMPAIGN_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Campaign updated successfully", fiber.Map{
		"message": result.Message,
	})
}

// GetCampaign returns a single campaign with its live stats
func (h *CampaignHandler) GetCampaign(c fiber.Ctx) error {
	campaignUUID := c.Params("uuid")
	if campaignUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required", "MISSING_CAMPAIGN_UUID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.campaignFlow.GetCampaign(ctx, campaignUUID)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}

		log.Println("Get campaign failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve campaign", "GET_CAMPAIGN_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Campaign retrieved successfully", result)
}

// ListCampaigns returns campaigns with filters and pagination
func (h *CampaignHandler) ListCampaigns(c fiber.Ctx) error {
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
	name := c.Query("name")
	status := c.Query("status")

	var filter *dto.ListCampaignsFilter
	if name != "" || status != "" {
		filter = &dto.ListCampaignsFilter{}
		if name != "" {
			filter.Name = &name
		}
		if status != "" {
			filter.Status = &status
		}
	}
	req := &dto.ListCampaignsRequest{
		Page:    page,
		Limit:   limit,
		OrderBy: orderby,
		Filter:  filter,
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.campaignFlow.ListCampaigns(ctx, req)
	if err != nil {
		log.Println("List campaigns failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list campaigns", "LIST_CAMPAIGNS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Campaigns retrieved successfully", fiber.Map{
		"message":    result.Message,
		"items":      result.Items,
		"pagination": result.Pagination,
	})
}

// DeleteCampaign removes a campaign and its delivery records
func (h *CampaignHandler) DeleteCampaign(c fiber.Ctx) error {
	campaignUUID := c.Params("uuid")
	if campaignUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required", "MISSING_CAMPAIGN_UUID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.campaignFlow.DeleteCampaign(ctx, campaignUUID); err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}

		log.Println("Campaign deletion failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Campaign deletion failed", "CAMPAIGN_DELETE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Campaign deleted successfully", nil)
}

// SendCampaign kicks off dispatch for a campaign immediately
func (h *CampaignHandler) SendCampaign(c fiber.Ctx) error {
	campaignUUID := c.Params("uuid")
	if campaignUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required", "MISSING_CAMPAIGN_UUID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.campaignFlow.SendCampaign(ctx, campaignUUID)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignNotDispatchable(err) {
			return errorResponse(c, fiber.StatusConflict, "Campaign is not in a dispatchable state", "CAMPAIGN_NOT_DISPATCHABLE", nil)
		}
		if businessflow.IsCampaignAlreadyActive(err) {
			return errorResponse(c, fiber.StatusConflict, "Campaign dispatch already started", "CAMPAIGN_ALREADY_ACTIVE", nil)
		}

		log.Println("Campaign send failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Campaign send failed", "CAMPAIGN_SEND_FAILED", nil)
	}

	return successResponse(c, fiber.StatusAccepted, "Campaign dispatch started", fiber.Map{
		"message":    result.Message,
		"uuid":       result.UUID,
		"status":     result.Status,
		"recipients": result.Recipients,
		"advisories": result.Advisories,
	})
}

// GetCampaignStats returns the live counters of a campaign
func (h *CampaignHandler) GetCampaignStats(c fiber.Ctx) error {
	campaignUUID := c.Params("uuid")
	if campaignUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required", "MISSING_CAMPAIGN_UUID", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.campaignFlow.GetCampaignStats(ctx, campaignUUID)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}

		log.Println("Get campaign stats failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve campaign stats", "GET_CAMPAIGN_STATS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Campaign stats retrieved successfully", fiber.Map{
		"message": result.Message,
		"uuid":    result.UUID,
		"status":  result.Status,
		"stats":   result.Stats,
	})
}

// EstimateAudience returns the audience size a targeting rule would reach
func (h *CampaignHandler) EstimateAudience(c fiber.Ctx) error {
	var req dto.EstimateAudienceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.campaignFlow.EstimateAudience(ctx, &req)
	if err != nil {
		if businessflow.IsInvalidTargetType(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid target type", "INVALID_TARGET_TYPE", nil)
		}

		log.Println("Audience estimate failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Audience estimate failed", "AUDIENCE_ESTIMATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Audience estimate calculated successfully", fiber.Map{
		"message":  result.Message,
		"estimate": result.Estimate,
	})
}
