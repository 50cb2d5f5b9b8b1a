// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// CampaignRepository defines operations for campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Campaign, error)
	Update(ctx context.Context, campaign models.Campaign) error
	UpdateStatus(ctx context.Context, id uint, status models.CampaignStatus) error
	// UpdateStatusIf performs a guarded transition and reports whether the row changed
	UpdateStatusIf(ctx context.Context, id uint, from, to models.CampaignStatus) (bool, error)
	IncrementCounters(ctx context.Context, id uint, delta models.CampaignCounterDelta) error
	ListDueScheduled(ctx context.Context, now time.Time) ([]*models.Campaign, error)
	Delete(ctx context.Context, id uint) error
}

// SubscriberRepository defines operations for subscribers
type SubscriberRepository interface {
	Repository[models.Subscriber, models.SubscriberFilter]
	ByEndpoint(ctx context.Context, endpoint string) (*models.Subscriber, error)
	// Upsert inserts the subscriber or refreshes keys and client metadata on
	// endpoint conflict; reports whether a new row was created
	Upsert(ctx context.Context, subscriber *models.Subscriber) (bool, error)
	UpdateAccessStatus(ctx context.Context, id uint, status models.SubscriberStatus) error
	DistinctBrowsers(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id uint) error
}

// DeliveryRecordRepository defines operations for delivery records
type DeliveryRecordRepository interface {
	Repository[models.DeliveryRecord, models.DeliveryRecordFilter]
	ByCampaignAndSubscriber(ctx context.Context, campaignID, subscriberID uint) (*models.DeliveryRecord, error)
	// Upsert creates or refreshes the record for its (campaign, subscriber) pair
	Upsert(ctx context.Context, record *models.DeliveryRecord) error
	// MarkDelivered stamps delivered_at once; reports whether the row changed
	MarkDelivered(ctx context.Context, campaignID, subscriberID uint, at time.Time) (bool, error)
	// MarkClicked stamps clicked_at once; reports whether the row changed
	MarkClicked(ctx context.Context, campaignID, subscriberID uint, at time.Time) (bool, error)
	// MarkDismissed stamps dismissed_at once; reports whether the row changed
	MarkDismissed(ctx context.Context, campaignID, subscriberID uint, at time.Time) (bool, error)
}

// LandingPageRepository defines operations for landing pages
type LandingPageRepository interface {
	Repository[models.LandingPage, models.LandingPageFilter]
	ByDomainAndIdentifier(ctx context.Context, domain, identifier string) (*models.LandingPage, error)
	IncrementSubscribers(ctx context.Context, id uint, delta int64) error
	Update(ctx context.Context, page models.LandingPage) error
	Delete(ctx context.Context, id uint) error
}

// TemplateRepository defines operations for templates
type TemplateRepository interface {
	Repository[models.Template, models.TemplateFilter]
	ByName(ctx context.Context, name string) (*models.Template, error)
	Update(ctx context.Context, template models.Template) error
	Delete(ctx context.Context, id uint) error
}
