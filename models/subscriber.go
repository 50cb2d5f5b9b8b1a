package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
	"gorm.io/gorm"
)

// SubscriberStatus represents the access-status flag of a subscriber
type SubscriberStatus string

const (
	SubscriberStatusGranted SubscriberStatus = "granted"
	SubscriberStatusAllowed SubscriberStatus = "allowed"
	SubscriberStatusBlocked SubscriberStatus = "blocked"
)

// String returns the string representation of the status
func (s SubscriberStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s SubscriberStatus) Valid() bool {
	switch s {
	case SubscriberStatusGranted, SubscriberStatusAllowed, SubscriberStatusBlocked:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for SubscriberStatus
func (s *SubscriberStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = SubscriberStatus(v)
	case []byte:
		*s = SubscriberStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into SubscriberStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for SubscriberStatus
func (s SubscriberStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid SubscriberStatus: %s", s)
	}
	return string(s), nil
}

// Subscriber represents a browser endpoint registered for push notifications.
// A subscriber is identified by its delivery endpoint; re-subscription with
// the same endpoint updates the existing row.
type Subscriber struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Endpoint string `gorm:"type:text;not null;uniqueIndex:uk_subscribers_endpoint" json:"endpoint"`

	// Web push encryption keys
	P256dh  string `gorm:"type:text;not null" json:"p256dh"`
	AuthKey string `gorm:"type:text;not null" json:"auth_key"`

	LandingPageID *uint `gorm:"index:idx_subscribers_landing_page_id" json:"landing_page_id,omitempty"`

	Browser        string `gorm:"size:64" json:"browser"`
	BrowserVersion string `gorm:"size:32" json:"browser_version"`
	OS             string `gorm:"size:64" json:"os"`
	Device         string `gorm:"size:64" json:"device"`
	IPAddress      string `gorm:"size:64" json:"ip_address"`

	AccessStatus SubscriberStatus `gorm:"type:subscriber_status;not null;default:'granted';index:idx_subscribers_access_status" json:"access_status"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_subscribers_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	LandingPage *LandingPage `gorm:"foreignKey:LandingPageID;references:ID" json:"landing_page,omitempty"`
}

// TableName returns the table name for the model
func (Subscriber) TableName() string {
	return "subscribers"
}

// BeforeCreate is called before creating a new record
func (s *Subscriber) BeforeCreate(tx *gorm.DB) error {
	if s.AccessStatus == "" {
		s.AccessStatus = SubscriberStatusGranted
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (s *Subscriber) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	s.UpdatedAt = &now
	return nil
}

// HasValidKeys reports whether the subscription carries everything the push
// protocol needs for one send attempt
func (s *Subscriber) HasValidKeys() bool {
	return s.Endpoint != "" && s.P256dh != "" && s.AuthKey != ""
}

// SubscriberFilter represents filter criteria for subscribers
type SubscriberFilter struct {
	ID            *uint             `json:"id,omitempty"`
	Endpoint      *string           `json:"endpoint,omitempty"`
	LandingPageID *uint             `json:"landing_page_id,omitempty"`
	Browser       *string           `json:"browser,omitempty"`
	OS            *string           `json:"os,omitempty"`
	AccessStatus  *SubscriberStatus `json:"access_status,omitempty"`
	CreatedAfter  *time.Time        `json:"created_after,omitempty"`
	CreatedBefore *time.Time        `json:"created_before,omitempty"`
}
