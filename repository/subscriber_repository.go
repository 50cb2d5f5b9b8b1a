package repository

import (
	"context"
	"errors"

	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriberRepositoryImpl implements the SubscriberRepository interface
type SubscriberRepositoryImpl struct {
	*BaseRepository[models.Subscriber, models.SubscriberFilter]
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &SubscriberRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Subscriber, models.SubscriberFilter](db),
	}
}

// ByEndpoint retrieves a subscriber by its delivery endpoint
func (r *SubscriberRepositoryImpl) ByEndpoint(ctx context.Context, endpoint string) (*models.Subscriber, error) {
	db := r.getDB(ctx)

	var subscriber models.Subscriber
	err := db.Where("endpoint = ?", endpoint).Last(&subscriber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &subscriber, nil
}

// Upsert inserts the subscriber or, on endpoint conflict, refreshes the
// encryption keys and client metadata of the existing row. The boolean result
// reports whether a brand-new row was created.
func (r *SubscriberRepositoryImpl) Upsert(ctx context.Context, subscriber *models.Subscriber) (bool, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return false, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	existing, err := r.ByEndpoint(context.WithValue(ctx, TxContextKey, db), subscriber.Endpoint)
	if err != nil {
		return false, err
	}

	if existing == nil {
		err = db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"p256dh", "auth_key", "browser", "browser_version",
				"os", "device", "ip_address", "access_status", "updated_at",
			}),
		}).Create(subscriber).Error
		if err != nil {
			return false, err
		}
		return true, nil
	}

	now := utils.UTCNow()
	err = db.Model(&models.Subscriber{}).
		Where("id = ?", existing.ID).
		Updates(map[string]any{
			"p256dh":          subscriber.P256dh,
			"auth_key":        subscriber.AuthKey,
			"browser":         subscriber.Browser,
			"browser_version": subscriber.BrowserVersion,
			"os":              subscriber.OS,
			"device":          subscriber.Device,
			"ip_address":      subscriber.IPAddress,
			"access_status":   subscriber.AccessStatus,
			"updated_at":      now,
		}).Error
	if err != nil {
		return false, err
	}

	subscriber.ID = existing.ID
	subscriber.LandingPageID = existing.LandingPageID
	subscriber.CreatedAt = existing.CreatedAt
	subscriber.UpdatedAt = &now

	return false, nil
}

// UpdateAccessStatus updates only the access-status flag of a subscriber
func (r *SubscriberRepositoryImpl) UpdateAccessStatus(ctx context.Context, id uint, status models.SubscriberStatus) error {
	db := r.getDB(ctx)

	return db.Model(&models.Subscriber{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"access_status": status,
			"updated_at":    utils.UTCNow(),
		}).Error
}

// DistinctBrowsers lists the distinct browser names seen across subscribers
func (r *SubscriberRepositoryImpl) DistinctBrowsers(ctx context.Context) ([]string, error) {
	db := r.getDB(ctx)

	var browsers []string
	err := db.Model(&models.Subscriber{}).
		Distinct("browser").
		Where("browser <> ''").
		Order("browser ASC").
		Pluck("browser", &browsers).Error
	if err != nil {
		return nil, err
	}

	return browsers, nil
}

// Delete removes a subscriber and its delivery records
func (r *SubscriberRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Where("subscriber_id = ?", id).Delete(&models.DeliveryRecord{}).Error
	if err != nil {
		return err
	}

	err = db.Delete(&models.Subscriber{}, id).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves subscribers based on filter criteria
func (r *SubscriberRepositoryImpl) ByFilter(ctx context.Context, filter models.SubscriberFilter, orderBy string, limit, offset int) ([]*models.Subscriber, error) {
	db := r.getDB(ctx)

	var subscribers []*models.Subscriber
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

	err := query.Find(&subscribers).Error
	if err != nil {
		return nil, err
	}

	return subscribers, nil
}

// Count returns the number of subscribers matching the filter
func (r *SubscriberRepositoryImpl) Count(ctx context.Context, filter models.SubscriberFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var subscriber models.Subscriber
	query := r.applyFilter(db.Model(&subscriber), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any subscriber matching the filter exists
func (r *SubscriberRepositoryImpl) Exists(ctx context.Context, filter models.SubscriberFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *SubscriberRepositoryImpl) applyFilter(db *gorm.DB, filter models.SubscriberFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Endpoint != nil {
		db = db.Where("endpoint = ?", *filter.Endpoint)
	}
	if filter.LandingPageID != nil {
		db = db.Where("landing_page_id = ?", *filter.LandingPageID)
	}
	if filter.Browser != nil {
		db = db.Where("browser = ?", *filter.Browser)
	}
	if filter.OS != nil {
		db = db.Where("os = ?", *filter.OS)
	}
	if filter.AccessStatus != nil {
		db = db.Where("access_status = ?", *filter.AccessStatus)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
