package models

import (
	"time"

	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
	"gorm.io/gorm"
)

// LandingPage is a domain + identifier pair that solicits subscription
// consent and doubles as a targeting dimension
type LandingPage struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Identifier string `gorm:"size:128;not null;uniqueIndex:uk_landing_pages_domain_identifier" json:"identifier"`
	Domain     string `gorm:"size:255;not null;uniqueIndex:uk_landing_pages_domain_identifier" json:"domain"`
	Title      string `gorm:"size:255" json:"title"`
	RedirectURL string `gorm:"type:text" json:"redirect_url"`

	// Maintained via atomic increment on each first-time handshake
	SubscriberCount int64 `gorm:"not null;default:0" json:"subscriber_count"`

	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TableName returns the table name for the model
func (LandingPage) TableName() string {
	return "landing_pages"
}

// BeforeCreate is called before creating a new record
func (l *LandingPage) BeforeCreate(tx *gorm.DB) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (l *LandingPage) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	l.UpdatedAt = &now
	return nil
}

// LandingPageFilter represents filter criteria for landing pages
type LandingPageFilter struct {
	ID         *uint   `json:"id,omitempty"`
	Identifier *string `json:"identifier,omitempty"`
	Domain     *string `json:"domain,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}
