package repository

import (
	"context"
	"errors"
	"time"

	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeliveryRecordRepositoryImpl implements the DeliveryRecordRepository interface
type DeliveryRecordRepositoryImpl struct {
	*BaseRepository[models.DeliveryRecord, models.DeliveryRecordFilter]
}

// NewDeliveryRecordRepository creates a new delivery record repository
func NewDeliveryRecordRepository(db *gorm.DB) DeliveryRecordRepository {
	return &DeliveryRecordRepositoryImpl{
		BaseRepository: NewBaseRepository[models.DeliveryRecord, models.DeliveryRecordFilter](db),
	}
}

// ByCampaignAndSubscriber retrieves the record for a (campaign, subscriber) pair
func (r *DeliveryRecordRepositoryImpl) ByCampaignAndSubscriber(ctx context.Context, campaignID, subscriberID uint) (*models.DeliveryRecord, error) {
	db := r.getDB(ctx)

	var record models.DeliveryRecord
	err := db.Where("campaign_id = ? AND subscriber_id = ?", campaignID, subscriberID).
		Last(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}

// Upsert creates or refreshes the record for its (campaign, subscriber) pair.
// Delivery, click, and dismiss stamps are owned by the Mark* methods and are
// never touched here; a row already stamped delivered keeps its status so an
// early callback survives the dispatcher's later outcome write.
func (r *DeliveryRecordRepositoryImpl) Upsert(ctx context.Context, record *models.DeliveryRecord) error {
	db := r.getDB(ctx)

	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "campaign_id"}, {Name: "subscriber_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"status": gorm.Expr(
				"CASE WHEN delivery_records.delivered_at IS NULL THEN excluded.status ELSE delivery_records.status END"),
			"failure_reason": gorm.Expr("excluded.failure_reason"),
			"updated_at":     gorm.Expr("excluded.updated_at"),
		}),
	}).Create(record).Error
}

// MarkDelivered stamps delivered_at on the pair's record, creating it when the
// callback arrives before the send outcome was persisted. The stamp is applied
// once; repeated callbacks leave the row unchanged.
func (r *DeliveryRecordRepositoryImpl) MarkDelivered(ctx context.Context, campaignID, subscriberID uint, at time.Time) (bool, error) {
	db := r.getDB(ctx)

	if err := r.ensureRecord(db, campaignID, subscriberID); err != nil {
		return false, err
	}

	res := db.Model(&models.DeliveryRecord{}).
		Where("campaign_id = ? AND subscriber_id = ? AND delivered_at IS NULL", campaignID, subscriberID).
		Updates(map[string]any{
			"status":       models.DeliveryStatusDelivered,
			"delivered_at": at,
			"updated_at":   utils.UTCNow(),
		})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// MarkClicked stamps clicked_at once; repeated callbacks leave the row unchanged
func (r *DeliveryRecordRepositoryImpl) MarkClicked(ctx context.Context, campaignID, subscriberID uint, at time.Time) (bool, error) {
	db := r.getDB(ctx)

	if err := r.ensureRecord(db, campaignID, subscriberID); err != nil {
		return false, err
	}

	res := db.Model(&models.DeliveryRecord{}).
		Where("campaign_id = ? AND subscriber_id = ? AND clicked_at IS NULL", campaignID, subscriberID).
		Updates(map[string]any{
			"clicked_at": at,
			"updated_at": utils.UTCNow(),
		})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// MarkDismissed stamps dismissed_at once and moves the status to dismissed
func (r *DeliveryRecordRepositoryImpl) MarkDismissed(ctx context.Context, campaignID, subscriberID uint, at time.Time) (bool, error) {
	db := r.getDB(ctx)

	if err := r.ensureRecord(db, campaignID, subscriberID); err != nil {
		return false, err
	}

	res := db.Model(&models.DeliveryRecord{}).
		Where("campaign_id = ? AND subscriber_id = ? AND dismissed_at IS NULL", campaignID, subscriberID).
		Updates(map[string]any{
			"status":       models.DeliveryStatusDismissed,
			"dismissed_at": at,
			"updated_at":   utils.UTCNow(),
		})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// ensureRecord inserts a pending row for the pair if none exists yet
func (r *DeliveryRecordRepositoryImpl) ensureRecord(db *gorm.DB, campaignID, subscriberID uint) error {
	record := models.DeliveryRecord{
		CampaignID:   campaignID,
		SubscriberID: subscriberID,
		Status:       models.DeliveryStatusPending,
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "campaign_id"}, {Name: "subscriber_id"}},
		DoNothing: true,
	}).Create(&record).Error
}

// ByFilter retrieves delivery records based on filter criteria
func (r *DeliveryRecordRepositoryImpl) ByFilter(ctx context.Context, filter models.DeliveryRecordFilter, orderBy string, limit, offset int) ([]*models.DeliveryRecord, error) {
	db := r.getDB(ctx)

	var records []*models.DeliveryRecord
	query := r.applyFilter(db, filter)

	// Apply ordering
	if orderBy != "" {
		query = query.Order(orderBy)
	}

	// Apply pagination
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Count returns the number of delivery records matching the filter
func (r *DeliveryRecordRepositoryImpl) Count(ctx context.Context, filter models.DeliveryRecordFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var record models.DeliveryRecord
	query := r.applyFilter(db.Model(&record), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any delivery record matching the filter exists
func (r *DeliveryRecordRepositoryImpl) Exists(ctx context.Context, filter models.DeliveryRecordFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *DeliveryRecordRepositoryImpl) applyFilter(db *gorm.DB, filter models.DeliveryRecordFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.CampaignID != nil {
		db = db.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.SubscriberID != nil {
		db = db.Where("subscriber_id = ?", *filter.SubscriberID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}

	return db
}
