package dto

import (
	"time"
)

// CreateLandingPageRequest represents the request to create a landing page
type CreateLandingPageRequest struct {
	Identifier  string `json:"identifier" validate:"required,max=128"`
	Domain      string `json:"domain" validate:"required,max=255"`
	Title       string `json:"title,omitempty" validate:"omitempty,max=255"`
	RedirectURL string `json:"redirect_url,omitempty" validate:"omitempty,max=2048"`
}

// UpdateLandingPageRequest represents the request to update a landing page
type UpdateLandingPageRequest struct {
	ID          uint    `json:"-"`
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	RedirectURL *string `json:"redirect_url,omitempty" validate:"omitempty,max=2048"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// GetLandingPageResponse represents a landing page in responses
type GetLandingPageResponse struct {
	ID              uint       `json:"id"`
	Identifier      string     `json:"identifier"`
	Domain          string     `json:"domain"`
	Title           string     `json:"title,omitempty"`
	RedirectURL     string     `json:"redirect_url,omitempty"`
	SubscriberCount int64      `json:"subscriber_count"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// CreateLandingPageResponse represents the response to create a landing page
type CreateLandingPageResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

// UpdateLandingPageResponse represents the response to update a landing page
type UpdateLandingPageResponse struct {
	Message string `json:"message"`
}

// ListLandingPagesResponse represents a list of landing pages
type ListLandingPagesResponse struct {
	Message string                   `json:"message"`
	Items   []GetLandingPageResponse `json:"items"`
}
