package dto

import (
	"time"

	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
)

// MessageActionDTO is one notification action button
type MessageActionDTO struct {
	Action string `json:"action" validate:"required,max=64"`
	Title  string `json:"title" validate:"required,max=64"`
	Icon   string `json:"icon,omitempty" validate:"omitempty,max=2048"`
}

// CampaignMessageDTO is the message content of a campaign. Title and message
// presence is enforced in the flow after template merging, not here.
type CampaignMessageDTO struct {
	Title   string             `json:"title" validate:"omitempty,max=512"`
	Message string             `json:"message" validate:"omitempty,max=2048"`
	Icon    string             `json:"icon,omitempty" validate:"omitempty,max=2048"`
	Image   string             `json:"image,omitempty" validate:"omitempty,max=2048"`
	URL     string             `json:"url,omitempty" validate:"omitempty,max=2048"`
	Tag     string             `json:"tag,omitempty" validate:"omitempty,max=128"`
	Actions []MessageActionDTO `json:"actions,omitempty" validate:"omitempty,dive"`
	Extras  map[string]any     `json:"extras,omitempty"`
}

// TargetingDTO is the audience rule of a campaign
type TargetingDTO struct {
	TargetType       string   `json:"target_type" validate:"required,oneof=all landing filter"`
	TargetLandingID  *uint    `json:"target_landing_id,omitempty"`
	TargetBrowsers   []string `json:"target_browsers,omitempty"`
	TargetBrowserAll *bool    `json:"target_browser_all,omitempty"`
	TargetOSes       []string `json:"target_oses,omitempty"`
	TargetOSAll      *bool    `json:"target_os_all,omitempty"`
}

// CreateCampaignRequest represents the request to create a new campaign.
// Message content comes from the request, from a template, or both; request
// fields override the template's.
type CreateCampaignRequest struct {
	Name        string              `json:"name" validate:"required,max=255"`
	Message     *CampaignMessageDTO `json:"message,omitempty"`
	TemplateID  *uint               `json:"template_id,omitempty"`
	Targeting   *TargetingDTO       `json:"targeting,omitempty"`
	ScheduledAt *time.Time          `json:"scheduled_at,omitempty"`
	SendNow     bool                `json:"send_now,omitempty"`
}

// UpdateCampaignRequest represents the request to update an existing campaign
type UpdateCampaignRequest struct {
	UUID        string              `json:"-"`
	Name        *string             `json:"name,omitempty" validate:"omitempty,max=255"`
	Message     *CampaignMessageDTO `json:"message,omitempty"`
	Targeting   *TargetingDTO       `json:"targeting,omitempty"`
	ScheduledAt *time.Time          `json:"scheduled_at,omitempty"`
	ClearSchedule bool              `json:"clear_schedule,omitempty"`
}

// CampaignStatsDTO carries the live counters and derived rates of a campaign
type CampaignStatsDTO struct {
	SentCount      int64  `json:"sent_count"`
	DeliveredCount int64  `json:"delivered_count"`
	ClickedCount   int64  `json:"clicked_count"`
	DismissedCount int64  `json:"dismissed_count"`
	FailedCount    int64  `json:"failed_count"`
	CTR            string `json:"ctr"`
	DeliveryRate   string `json:"delivery_rate"`
}

// GetCampaignResponse represents a campaign in responses
type GetCampaignResponse struct {
	UUID        string             `json:"uuid"`
	Name        string             `json:"name"`
	Status      string             `json:"status"`
	Message     CampaignMessageDTO `json:"message"`
	Targeting   TargetingDTO       `json:"targeting"`
	ScheduledAt *time.Time         `json:"scheduled_at,omitempty"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	Stats       CampaignStatsDTO   `json:"stats"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   *time.Time         `json:"updated_at,omitempty"`
}

// CreateCampaignResponse represents the response to create a new campaign
type CreateCampaignResponse struct {
	Message   string `json:"message"`
	UUID      string `json:"uuid"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// UpdateCampaignResponse represents the response to update an existing campaign
type UpdateCampaignResponse struct {
	Message string `json:"message"`
}

// SendCampaignResponse acknowledges that dispatch was started
type SendCampaignResponse struct {
	Message    string   `json:"message"`
	UUID       string   `json:"uuid"`
	Status     string   `json:"status"`
	Recipients int      `json:"recipients"`
	Advisories []string `json:"advisories,omitempty"`
}

// EstimateAudienceRequest asks for the audience size of a targeting rule
type EstimateAudienceRequest struct {
	Targeting TargetingDTO `json:"targeting" validate:"required"`
}

// EstimateAudienceResponse carries the estimated audience size
type EstimateAudienceResponse struct {
	Message  string `json:"message"`
	Estimate int64  `json:"estimate"`
}

// ListCampaignsFilter represents filter criteria for listing campaigns
type ListCampaignsFilter struct {
	Name   *string `json:"name,omitempty"`
	Status *string `json:"status,omitempty"`
}

// ListCampaignsRequest represents a paginated list request for campaigns
type ListCampaignsRequest struct {
	Page    int                  `json:"page"`
	Limit   int                  `json:"limit"`
	OrderBy string               `json:"orderby"` // newest, oldest
	Filter  *ListCampaignsFilter `json:"filter,omitempty"`
}

// ListCampaignsResponse represents a paginated list of campaigns
type ListCampaignsResponse struct {
	Message    string                `json:"message"`
	Items      []GetCampaignResponse `json:"items"`
	Pagination PaginationInfo        `json:"pagination"`
}

// ToModelMessage converts a message DTO to its model counterpart
func (m CampaignMessageDTO) ToModelMessage() models.CampaignMessage {
	actions := make([]models.MessageAction, 0, len(m.Actions))
	for _, a := range m.Actions {
		actions = append(actions, models.MessageAction{
			Action: a.Action,
			Title:  a.Title,
			Icon:   a.Icon,
		})
	}

	return models.CampaignMessage{
		Title:   m.Title,
		Message: m.Message,
		Icon:    m.Icon,
		Image:   m.Image,
		URL:     m.URL,
		Tag:     m.Tag,
		Actions: actions,
		Extras:  m.Extras,
	}
}

// FromModelMessage converts a model message to its DTO counterpart
func FromModelMessage(m models.CampaignMessage) CampaignMessageDTO {
	actions := make([]MessageActionDTO, 0, len(m.Actions))
	for _, a := range m.Actions {
		actions = append(actions, MessageActionDTO{
			Action: a.Action,
			Title:  a.Title,
			Icon:   a.Icon,
		})
	}

	return CampaignMessageDTO{
		Title:   m.Title,
		Message: m.Message,
		Icon:    m.Icon,
		Image:   m.Image,
		URL:     m.URL,
		Tag:     m.Tag,
		Actions: actions,
		Extras:  m.Extras,
	}
}
