package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// CampaignStatus represents the lifecycle status of a campaign
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// String returns the string representation of the status
func (s CampaignStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusScheduled,
		CampaignStatusActive, CampaignStatusCompleted:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CampaignStatus
func (s *CampaignStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = CampaignStatus(v)
	case []byte:
		*s = CampaignStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CampaignStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CampaignStatus
func (s CampaignStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid CampaignStatus: %s", s)
	}
	return string(s), nil
}

// TargetType enumerates the audience rule kinds
type TargetType string

const (
	TargetTypeAll     TargetType = "all"
	TargetTypeLanding TargetType = "landing"
	TargetTypeFilter  TargetType = "filter"
)

// MessageAction is a notification action button
type MessageAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
}

// CampaignMessage represents the JSON message content of a campaign. Extras
// are caller-supplied fields forwarded verbatim inside the payload's data block.
type CampaignMessage struct {
	Title   string          `json:"title"`
	Message string          `json:"message"`
	Icon    string          `json:"icon,omitempty"`
	Image   string          `json:"image,omitempty"`
	URL     string          `json:"url,omitempty"`
	Tag     string          `json:"tag,omitempty"`
	Actions []MessageAction `json:"actions,omitempty"`
	Extras  map[string]any  `json:"extras,omitempty"`
}

// Value implements the driver.Valuer interface for CampaignMessage
func (m CampaignMessage) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for CampaignMessage
func (m *CampaignMessage) Scan(value any) error {
	if value == nil {
		*m = CampaignMessage{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CampaignMessage", value)
	}

	return json.Unmarshal(bytes, m)
}

// Campaign represents a push campaign in the database
type Campaign struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	UUID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uk_campaigns_uuid" json:"uuid"`
	Name    string          `gorm:"size:255;not null" json:"name"`
	Status  CampaignStatus  `gorm:"type:campaign_status;not null;default:'draft';index:idx_campaigns_status" json:"status"`
	Message CampaignMessage `gorm:"type:jsonb;not null" json:"message"`

	// Targeting rule
	TargetType       TargetType     `gorm:"size:16;not null;default:'all'" json:"target_type"`
	TargetLandingID  *uint          `gorm:"index:idx_campaigns_target_landing_id" json:"target_landing_id,omitempty"`
	TargetBrowsers   pq.StringArray `gorm:"type:text[]" json:"target_browsers,omitempty"`
	TargetBrowserAll bool           `gorm:"not null;default:true" json:"target_browser_all"`
	TargetOSes       pq.StringArray `gorm:"type:text[]" json:"target_oses,omitempty"`
	TargetOSAll      bool           `gorm:"not null;default:true" json:"target_os_all"`

	ScheduledAt *time.Time `gorm:"index:idx_campaigns_scheduled_at" json:"scheduled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Counters are owned by the dispatch coordinator and tracking callbacks;
	// always mutated via atomic increment-by-N, never read-modify-write.
	SentCount      int64 `gorm:"not null;default:0" json:"sent_count"`
	DeliveredCount int64 `gorm:"not null;default:0" json:"delivered_count"`
	ClickedCount   int64 `gorm:"not null;default:0" json:"clicked_count"`
	DismissedCount int64 `gorm:"not null;default:0" json:"dismissed_count"`
	FailedCount    int64 `gorm:"not null;default:0" json:"failed_count"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_campaigns_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	LandingPage *LandingPage `gorm:"foreignKey:TargetLandingID;references:ID" json:"landing_page,omitempty"`
}

// TableName returns the table name for the model
func (Campaign) TableName() string {
	return "campaigns"
}

// BeforeCreate is called before creating a new record
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CampaignStatusDraft
	}
	if c.TargetType == "" {
		c.TargetType = TargetTypeAll
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *Campaign) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// IsEditable checks if the campaign content can still be edited
func (c *Campaign) IsEditable() bool {
	return c.Status == CampaignStatusDraft ||
		c.Status == CampaignStatusScheduled
}

// IsDispatchable checks if the campaign may be handed to the dispatch coordinator
func (c *Campaign) IsDispatchable() bool {
	return c.Status == CampaignStatusDraft ||
		c.Status == CampaignStatusScheduled
}

// CanTransitionTo checks if the campaign can transition to the given status
func (c *Campaign) CanTransitionTo(newStatus CampaignStatus) bool {
	switch c.Status {
	case CampaignStatusDraft:
		return newStatus == CampaignStatusScheduled ||
			newStatus == CampaignStatusActive
	case CampaignStatusScheduled:
		return newStatus == CampaignStatusDraft ||
			newStatus == CampaignStatusActive
	case CampaignStatusActive:
		return newStatus == CampaignStatusCompleted
	default:
		return false
	}
}

// CampaignFilter represents filter criteria for campaigns
type CampaignFilter struct {
	ID              *uint           `json:"id,omitempty"`
	UUID            *uuid.UUID      `json:"uuid,omitempty"`
	Status          *CampaignStatus `json:"status,omitempty"`
	Name            *string         `json:"name,omitempty"`
	TargetType      *TargetType     `json:"target_type,omitempty"`
	TargetLandingID *uint           `json:"target_landing_id,omitempty"`
	ScheduledAfter  *time.Time      `json:"scheduled_after,omitempty"`
	ScheduledBefore *time.Time      `json:"scheduled_before,omitempty"`
	CreatedAfter    *time.Time      `json:"created_after,omitempty"`
	CreatedBefore   *time.Time      `json:"created_before,omitempty"`
}

// CampaignCounterDelta carries counter increments for a campaign.
// All fields are added to the stored counters in a single UPDATE.
type CampaignCounterDelta struct {
	Sent      int64
	Delivered int64
	Clicked   int64
	Dismissed int64
	Failed    int64
}

// IsZero reports whether the delta carries no increments
func (d CampaignCounterDelta) IsZero() bool {
	return d.Sent == 0 && d.Delivered == 0 && d.Clicked == 0 &&
		d.Dismissed == 0 && d.Failed == 0
}
