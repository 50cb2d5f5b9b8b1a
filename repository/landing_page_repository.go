package repository

import (
	"context"
	"errors"

	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
	"gorm.io/gorm"
)

// LandingPageRepositoryImpl implements the LandingPageRepository interface
type LandingPageRepositoryImpl struct {
	*BaseRepository[models.LandingPage, models.LandingPageFilter]
}

// NewLandingPageRepository creates a new landing page repository
func NewLandingPageRepository(db *gorm.DB) LandingPageRepository {
	return &LandingPageRepositoryImpl{
		BaseRepository: NewBaseRepository[models.LandingPage, models.LandingPageFilter](db),
	}
}

// ByDomainAndIdentifier retrieves a landing page by its unique pair
func (r *LandingPageRepositoryImpl) ByDomainAndIdentifier(ctx context.Context, domain, identifier string) (*models.LandingPage, error) {
	db := r.getDB(ctx)

	var page models.LandingPage
	err := db.Where("domain = ? AND identifier = ?", domain, identifier).
		Last(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &page, nil
}

// IncrementSubscribers applies an atomic increment to the subscriber count
func (r *LandingPageRepositoryImpl) IncrementSubscribers(ctx context.Context, id uint, delta int64) error {
	if delta == 0 {
		return nil
	}

	db := r.getDB(ctx)

	return db.Model(&models.LandingPage{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"subscriber_count": gorm.Expr("subscriber_count + ?", delta),
			"updated_at":       utils.UTCNow(),
		}).Error
}

// Update updates a landing page
func (r *LandingPageRepositoryImpl) Update(ctx context.Context, page models.LandingPage) error {
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

	now := utils.UTCNow()
	page.UpdatedAt = &now

	err = db.Save(&page).Error
	if err != nil {
		return err
	}

	return nil
}

// Delete removes a landing page
func (r *LandingPageRepositoryImpl) Delete(ctx context.Context, id uint) error {
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

	// Subscribers keep their rows; the landing reference goes stale on purpose
	err = db.Model(&models.Subscriber{}).
		Where("landing_page_id = ?", id).
		Update("landing_page_id", nil).Error
	if err != nil {
		return err
	}

	err = db.Delete(&models.LandingPage{}, id).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves landing pages based on filter criteria
func (r *LandingPageRepositoryImpl) ByFilter(ctx context.Context, filter models.LandingPageFilter, orderBy string, limit, offset int) ([]*models.LandingPage, error) {
	db := r.getDB(ctx)

	var pages []*models.LandingPage
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

	err := query.Find(&pages).Error
	if err != nil {
		return nil, err
	}

	return pages, nil
}

// Count returns the number of landing pages matching the filter
func (r *LandingPageRepositoryImpl) Count(ctx context.Context, filter models.LandingPageFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	var page models.LandingPage
	query := r.applyFilter(db.Model(&page), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any landing page matching the filter exists
func (r *LandingPageRepositoryImpl) Exists(ctx context.Context, filter models.LandingPageFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *LandingPageRepositoryImpl) applyFilter(db *gorm.DB, filter models.LandingPageFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Identifier != nil {
		db = db.Where("identifier = ?", *filter.Identifier)
	}
	if filter.Domain != nil {
		db = db.Where("domain = ?", *filter.Domain)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}

	return db
}
