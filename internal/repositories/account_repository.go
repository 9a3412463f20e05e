package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"telecore/internal/models/db_models"
)

type AccountRepository interface {
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
	FindByIds(ctx context.Context, ids []uuid.UUID) ([]db_models.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) FindByIds(ctx context.Context, ids []uuid.UUID) ([]db_models.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var accounts []db_models.Account
	err := a.db.WithContext(ctx).Where("id IN ?", ids).Find(&accounts).Error
	return accounts, err
}
