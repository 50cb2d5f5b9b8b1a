package dto

import (
	"time"
)

// CreateTemplateRequest represents the request to create a template
type CreateTemplateRequest struct {
	Name    string             `json:"name" validate:"required,max=255"`
	Message CampaignMessageDTO `json:"message" validate:"required"`
}

// UpdateTemplateRequest represents the request to update a template
type UpdateTemplateRequest struct {
	ID      uint                `json:"-"`
	Name    *string             `json:"name,omitempty" validate:"omitempty,max=255"`
	Message *CampaignMessageDTO `json:"message,omitempty"`
}

// GetTemplateResponse represents a template in responses
type GetTemplateResponse struct {
	ID        uint               `json:"id"`
	Name      string             `json:"name"`
	Message   CampaignMessageDTO `json:"message"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty"`
}

// CreateTemplateResponse represents the response to create a template
type CreateTemplateResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

// UpdateTemplateResponse represents the response to update a template
type UpdateTemplateResponse struct {
	Message string `json:"message"`
}

// ListTemplatesResponse represents a list of templates
type ListTemplatesResponse struct {
	Message string                `json:"message"`
	Items   []GetTemplateResponse `json:"items"`
}
