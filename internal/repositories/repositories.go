package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"telecore/internal/models/db_models"
)

// Repositories groups the stores a unit of work operates on.
type Repositories struct {
	Plans         IPlanRepository
	Subscriptions SubscriptionRepository
	Transactions  TransactionRepository
	Usage         UsageRepository
	Accounts      AccountRepository
}

// UnitOfWork runs fn atomically. Every write made through the Repositories
// passed to fn is committed when fn returns nil and discarded otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r Repositories) error) error
}

type SubscriptionFilter struct {
	CustomerID *uuid.UUID
	PlanID     *uuid.UUID
	Status     *db_models.SubscriptionStatus
}

// StatusTransition is a compare-and-swap on a subscription row: it only
// applies while the row is in one of From.
type StatusTransition struct {
	From []db_models.SubscriptionStatus
	To   db_models.SubscriptionStatus

	// Extra guard used by the sweep so a concurrent extension is not lost.
	ExpiresBefore *int64

	ExpiresAt       *int64
	CanceledAt      *int64
	ClearCanceledAt bool
}

type TransactionFilter struct {
	CustomerID *uuid.UUID
	RetailerID *uuid.UUID
	Status     *db_models.TransactionStatus
	Type       *db_models.TransactionType
	// Inclusive lower / exclusive upper bounds on transacted_at.
	Since *int64
	Until *int64
}

type UsageFilter struct {
	CustomerID     *uuid.UUID
	SubscriptionID *uuid.UUID
	Since          *int64
	Until          *int64
}

type gormUnitOfWork struct {
	db    *gorm.DB
	plans IPlanRepository
}

// NewUnitOfWork binds units of work to db. Plans are read through plans
// (possibly cached) since the catalog is not written inside a unit of work.
func NewUnitOfWork(db *gorm.DB, plans IPlanRepository) UnitOfWork {
	return &gormUnitOfWork{db: db, plans: plans}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(r Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormRepositories(tx, u.plans))
	})
}

// NewGormRepositories wires every gorm store onto db. A nil plans falls back
// to the uncached plan repository.
func NewGormRepositories(db *gorm.DB, plans IPlanRepository) Repositories {
	if plans == nil {
		plans = NewPlanRepository(db)
	}
	return Repositories{
		Plans:         plans,
		Subscriptions: NewSubscriptionRepository(db),
		Transactions:  NewTransactionRepository(db),
		Usage:         NewUsageRepository(db),
		Accounts:      NewAccountRepository(db),
	}
}
