// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"crypto/subtle"
	"strings"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/scheduler"
	"github.com/gofiber/fiber/v3"
)

// SchedulerHandlerInterface defines the contract for the scheduler trigger
type SchedulerHandlerInterface interface {
	Trigger(c fiber.Ctx) error
}

// SchedulerHandler exposes a manual trigger for the campaign scheduler,
// intended for external cron services
type SchedulerHandler struct {
	scheduler     *scheduler.CampaignScheduler
	triggerSecret string
}

// NewSchedulerHandler creates a new scheduler trigger handler
func NewSchedulerHandler(campaignScheduler *scheduler.CampaignScheduler, triggerSecret string) *SchedulerHandler {
	return &SchedulerHandler{
		scheduler:     campaignScheduler,
		triggerSecret: triggerSecret,
	}
}

// Trigger runs one scheduler sweep immediately. Requires the configured
// bearer secret.
func (h *SchedulerHandler) Trigger(c fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if h.triggerSecret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.triggerSecret)) != 1 {
		return errorResponse(c, fiber.StatusUnauthorized, "Invalid trigger secret", "INVALID_TRIGGER_SECRET", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	triggered := h.scheduler.RunOnce(ctx)

	return successResponse(c, fiber.StatusOK, "Scheduler sweep completed", fiber.Map{
		"triggered": triggered,
	})
}
