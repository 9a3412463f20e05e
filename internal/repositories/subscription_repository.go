package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"telecore/internal/models/db_models"
	"telecore/pkg/utils"
)

type SubscriptionRepository interface {
	// Create fails with utils.ErrDuplicateActivePlan when the customer already
	// holds an ACTIVE row for the plan.
	Create(ctx context.Context, sub *db_models.Subscription) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error)
	FindActive(ctx context.Context, customerID, planID uuid.UUID) (*db_models.Subscription, error)
	List(ctx context.Context, filter SubscriptionFilter) ([]db_models.Subscription, error)
	FindExpiredCandidates(ctx context.Context, now int64) ([]db_models.Subscription, error)
	// TransitionStatus reports false when the row was not in an allowed source state.
	TransitionStatus(ctx context.Context, id uuid.UUID, t StatusTransition) (bool, error)
	ExtendActive(ctx context.Context, customerID uuid.UUID, seconds int64) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *db_models.Subscription) error {
	err := r.db.WithContext(ctx).Create(sub).Error
	if isActivePlanViolation(err) {
		return utils.ErrDuplicateActivePlan
	}
	return err
}

func (r *subscriptionRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

func (r *subscriptionRepository) FindActive(ctx context.Context, customerID, planID uuid.UUID) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND plan_id = ? AND status = ?", customerID, planID, db_models.SubStatusActive).
		First(&sub).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

func (r *subscriptionRepository) List(ctx context.Context, filter SubscriptionFilter) ([]db_models.Subscription, error) {
	q := r.db.WithContext(ctx).Model(&db_models.Subscription{})
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.PlanID != nil {
		q = q.Where("plan_id = ?", *filter.PlanID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var subs []db_models.Subscription
	err := q.Order("activated_at ASC, created_at ASC").Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) FindExpiredCandidates(ctx context.Context, now int64) ([]db_models.Subscription, error) {
	var subs []db_models.Subscription
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", db_models.SubStatusActive, now).
		Order("expires_at ASC").
		Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) TransitionStatus(ctx context.Context, id uuid.UUID, t StatusTransition) (bool, error) {
	updates := map[string]interface{}{
		"status":     t.To,
		"updated_at": utils.NowUnixSeconds(),
	}
	if t.ExpiresAt != nil {
		updates["expires_at"] = *t.ExpiresAt
	}
	if t.CanceledAt != nil {
		updates["canceled_at"] = *t.CanceledAt
	}
	if t.ClearCanceledAt {
		updates["canceled_at"] = gorm.Expr("NULL")
	}

	q := r.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("id = ? AND status IN ?", id, t.From)
	if t.ExpiresBefore != nil {
		q = q.Where("expires_at < ?", *t.ExpiresBefore)
	}

	res := q.Updates(updates)
	if res.Error != nil {
		if isActivePlanViolation(res.Error) {
			return false, utils.ErrDuplicateActivePlan
		}
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *subscriptionRepository) ExtendActive(ctx context.Context, customerID uuid.UUID, seconds int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("customer_id = ? AND status = ?", customerID, db_models.SubStatusActive).
		Updates(map[string]interface{}{
			"expires_at": gorm.Expr("expires_at + ?", seconds),
			"updated_at": utils.NowUnixSeconds(),
		})
	return res.RowsAffected, res.Error
}
