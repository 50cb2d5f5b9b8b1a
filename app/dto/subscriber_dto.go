package dto

import (
	"time"
)

// SubscriptionKeysDTO carries the web push encryption keys of a subscription
type SubscriptionKeysDTO struct {
	P256dh string `json:"p256dh" validate:"required"`
	Auth   string `json:"auth" validate:"required"`
}

// RegisterSubscriberRequest is the browser handshake payload
type RegisterSubscriberRequest struct {
	Endpoint       string              `json:"endpoint" validate:"required,max=4096"`
	Keys           SubscriptionKeysDTO `json:"keys" validate:"required"`
	LandingDomain  string              `json:"landing_domain,omitempty"`
	LandingID      string              `json:"landing_id,omitempty"`
	Browser        string              `json:"browser,omitempty" validate:"omitempty,max=64"`
	BrowserVersion string              `json:"browser_version,omitempty" validate:"omitempty,max=32"`
	OS             string              `json:"os,omitempty" validate:"omitempty,max=64"`
	Device         string              `json:"device,omitempty" validate:"omitempty,max=64"`
	AccessStatus   string              `json:"access_status,omitempty" validate:"omitempty,oneof=granted allowed blocked"`
}

// RegisterSubscriberResponse acknowledges the handshake
type RegisterSubscriberResponse struct {
	Message      string `json:"message"`
	SubscriberID uint   `json:"subscriber_id"`
	Created      bool   `json:"created"`
	RedirectURL  string `json:"redirect_url,omitempty"`
}

// GetSubscriberResponse represents a subscriber in responses
type GetSubscriberResponse struct {
	ID             uint       `json:"id"`
	Endpoint       string     `json:"endpoint"`
	LandingPageID  *uint      `json:"landing_page_id,omitempty"`
	Browser        string     `json:"browser,omitempty"`
	BrowserVersion string     `json:"browser_version,omitempty"`
	OS             string     `json:"os,omitempty"`
	Device         string     `json:"device,omitempty"`
	IPAddress      string     `json:"ip_address,omitempty"`
	AccessStatus   string     `json:"access_status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// ListSubscribersFilter represents filter criteria for listing subscribers
type ListSubscribersFilter struct {
	LandingPageID *uint   `json:"landing_page_id,omitempty"`
	Browser       *string `json:"browser,omitempty"`
	OS            *string `json:"os,omitempty"`
	AccessStatus  *string `json:"access_status,omitempty"`
}

// ListSubscribersRequest represents a paginated list request for subscribers
type ListSubscribersRequest struct {
	Page    int                    `json:"page"`
	Limit   int                    `json:"limit"`
	OrderBy string                 `json:"orderby"` // newest, oldest
	Filter  *ListSubscribersFilter `json:"filter,omitempty"`
}

// ListSubscribersResponse represents a paginated list of subscribers
type ListSubscribersResponse struct {
	Message    string                  `json:"message"`
	Items      []GetSubscriberResponse `json:"items"`
	Pagination PaginationInfo          `json:"pagination"`
}

// UpdateSubscriberStatusRequest changes the access-status flag of a subscriber
type UpdateSubscriberStatusRequest struct {
	SubscriberID uint   `json:"-"`
	AccessStatus string `json:"access_status" validate:"required,oneof=granted allowed blocked"`
}

// UpdateSubscriberStatusResponse acknowledges the status change
type UpdateSubscriberStatusResponse struct {
	Message string `json:"message"`
}
