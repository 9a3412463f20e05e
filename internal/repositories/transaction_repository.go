package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"telecore/internal/models/db_models"
	"telecore/pkg/utils"
)

type TransactionRepository interface {
	Insert(ctx context.Context, txn *db_models.Transaction) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Transaction, error)
	// List returns newest first.
	List(ctx context.Context, filter TransactionFilter) ([]db_models.Transaction, error)
	// UpdateStatus is conditional on the current status being from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to db_models.TransactionStatus, reason *string) (bool, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Insert(ctx context.Context, txn *db_models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *transactionRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Transaction, error) {
	var txn db_models.Transaction
	err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &txn, nil
}

func (r *transactionRepository) List(ctx context.Context, filter TransactionFilter) ([]db_models.Transaction, error) {
	q := r.db.WithContext(ctx).Model(&db_models.Transaction{})
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.RetailerID != nil {
		q = q.Where("retailer_id = ?", *filter.RetailerID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.Since != nil {
		q = q.Where("transacted_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		q = q.Where("transacted_at < ?", *filter.Until)
	}

	var txns []db_models.Transaction
	err := q.Order("transacted_at DESC, created_at DESC").Find(&txns).Error
	return txns, err
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to db_models.TransactionStatus, reason *string) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": utils.NowUnixSeconds(),
	}
	if reason != nil {
		updates["failure_reason"] = *reason
	}

	res := r.db.WithContext(ctx).
		Model(&db_models.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
