package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
	"gorm.io/gorm"
)

// DeliveryStatus enumerates status of a per-subscriber delivery record
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusFailed    DeliveryStatus = "failed"
	DeliveryStatusDismissed DeliveryStatus = "dismissed"
)

// Valid checks if the status is valid
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusPending, DeliveryStatusDelivered,
		DeliveryStatusFailed, DeliveryStatusDismissed:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for DeliveryStatus
func (s *DeliveryStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = DeliveryStatus(v)
	case []byte:
		*s = DeliveryStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into DeliveryStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for DeliveryStatus
func (s DeliveryStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid DeliveryStatus: %s", s)
	}
	return string(s), nil
}

// DeliveryRecord tracks a single (campaign, subscriber) delivery attempt and
// the subsequent client-side confirmations. Exactly one row exists per pair,
// enforced by the composite unique index; it is created lazily on the first
// delivery attempt or the first tracking callback and upserted thereafter.
type DeliveryRecord struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CampaignID   uint           `gorm:"not null;uniqueIndex:uk_delivery_records_campaign_subscriber;index:idx_delivery_records_campaign_id" json:"campaign_id"`
	SubscriberID uint           `gorm:"not null;uniqueIndex:uk_delivery_records_campaign_subscriber" json:"subscriber_id"`
	Status       DeliveryStatus `gorm:"type:delivery_status;not null;default:'pending';index:idx_delivery_records_status" json:"status"`

	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
	ClickedAt     *time.Time `json:"clicked_at,omitempty"`
	DismissedAt   *time.Time `json:"dismissed_at,omitempty"`
	FailureReason *string    `gorm:"type:text" json:"failure_reason,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for the model
func (DeliveryRecord) TableName() string {
	return "delivery_records"
}

// BeforeCreate is called before creating a new record
func (d *DeliveryRecord) BeforeCreate(tx *gorm.DB) error {
	if d.Status == "" {
		d.Status = DeliveryStatusPending
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = utils.UTCNow()
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}
	return nil
}

// DeliveryRecordFilter represents filter criteria for delivery records
type DeliveryRecordFilter struct {
	ID           *uint           `json:"id,omitempty"`
	CampaignID   *uint           `json:"campaign_id,omitempty"`
	SubscriberID *uint           `json:"subscriber_id,omitempty"`
	Status       *DeliveryStatus `json:"status,omitempty"`
}
