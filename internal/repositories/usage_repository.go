package repositories

import (
	"context"

	"gorm.io/gorm"

	"telecore/internal/models/db_models"
)

// UsageRepository is read-only; records are written by the metering pipeline.
type UsageRepository interface {
	// List returns records in ascending recorded_at order.
	List(ctx context.Context, filter UsageFilter) ([]db_models.UsageRecord, error)
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) List(ctx context.Context, filter UsageFilter) ([]db_models.UsageRecord, error) {
	q := r.db.WithContext(ctx).Model(&db_models.UsageRecord{})
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.SubscriptionID != nil {
		q = q.Where("subscription_id = ?", *filter.SubscriptionID)
	}
	if filter.Since != nil {
		q = q.Where("recorded_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		q = q.Where("recorded_at < ?", *filter.Until)
	}

	var records []db_models.UsageRecord
	err := q.Order("recorded_at ASC, created_at ASC").Find(&records).Error
	return records, err
}
