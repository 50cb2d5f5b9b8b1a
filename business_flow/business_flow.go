// Package businessflow contains the business logic for the application.
package businessflow

import (
	"fmt"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/dto"
	"github.com/affiliatesimran0007/push-notification-app-sub001/config"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for logging and subscriber records
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// FormatRate renders clicked/sent style ratios as a percentage with one
// decimal place. A zero denominator yields "0.0".
func FormatRate(numerator, denominator int64) string {
	if denominator == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(numerator)/float64(denominator)*100)
}

// ToCampaignStatsDTO derives the stats block of a campaign response
func ToCampaignStatsDTO(c *models.Campaign) dto.CampaignStatsDTO {
	return dto.CampaignStatsDTO{
		SentCount:      c.SentCount,
		DeliveredCount: c.DeliveredCount,
		ClickedCount:   c.ClickedCount,
		DismissedCount: c.DismissedCount,
		FailedCount:    c.FailedCount,
		CTR:            FormatRate(c.ClickedCount, c.SentCount),
		DeliveryRate:   FormatRate(c.DeliveredCount, c.SentCount),
	}
}

// ToCampaignDTO converts a campaign model to its response DTO
func ToCampaignDTO(c *models.Campaign) dto.GetCampaignResponse {
	browserAll := c.TargetBrowserAll
	osAll := c.TargetOSAll

	return dto.GetCampaignResponse{
		UUID:    c.UUID.String(),
		Name:    c.Name,
		Status:  c.Status.String(),
		Message: dto.FromModelMessage(c.Message),
		Targeting: dto.TargetingDTO{
			TargetType:       string(c.TargetType),
			TargetLandingID:  c.TargetLandingID,
			TargetBrowsers:   c.TargetBrowsers,
			TargetBrowserAll: &browserAll,
			TargetOSes:       c.TargetOSes,
			TargetOSAll:      &osAll,
		},
		ScheduledAt: c.ScheduledAt,
		CompletedAt: c.CompletedAt,
		Stats:       ToCampaignStatsDTO(c),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToSubscriberDTO converts a subscriber model to its response DTO
func ToSubscriberDTO(s *models.Subscriber) dto.GetSubscriberResponse {
	return dto.GetSubscriberResponse{
		ID:             s.ID,
		Endpoint:       s.Endpoint,
		LandingPageID:  s.LandingPageID,
		Browser:        s.Browser,
		BrowserVersion: s.BrowserVersion,
		OS:             s.OS,
		Device:         s.Device,
		IPAddress:      s.IPAddress,
		AccessStatus:   s.AccessStatus.String(),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// ToLandingPageDTO converts a landing page model to its response DTO
func ToLandingPageDTO(l *models.LandingPage) dto.GetLandingPageResponse {
	return dto.GetLandingPageResponse{
		ID:              l.ID,
		Identifier:      l.Identifier,
		Domain:          l.Domain,
		Title:           l.Title,
		RedirectURL:     l.RedirectURL,
		SubscriberCount: l.SubscriberCount,
		IsActive:        l.IsActive,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

// ToTemplateDTO converts a template model to its response DTO
func ToTemplateDTO(t *models.Template) dto.GetTemplateResponse {
	return dto.GetTemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Message:   dto.FromModelMessage(t.Message),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// redisKey namespaces a cache key with the configured prefix
func redisKey(cfg config.CacheConfig, key string) string {
	return cfg.RedisPrefix + key
}

// normalizePagination validates and defaults page and limit values
func normalizePagination(page, limit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 20
	}
	if page < 1 {
		return 0, 0, ErrInvalidPage
	}
	if limit < 1 || limit > 100 {
		return 0, 0, ErrInvalidPageSize
	}
	return page, limit, nil
}
