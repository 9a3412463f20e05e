package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"telecore/internal/events"
	"telecore/internal/metrics"
	dbm "telecore/internal/models/db_models"
	"telecore/internal/repositories"
	"telecore/internal/repositories/memory"
	"telecore/pkg/utils"
)

var day0 = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memory.Store
	clock    *utils.FixedClock
	recorder *events.Recorder
	metrics  metrics.LifecycleMetrics
	uow      repositories.UnitOfWork
	subs     SubscriptionService
	txns     TransactionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return newFixtureWith(t, store, store.UnitOfWork())
}

func newFixtureWith(t *testing.T, store *memory.Store, uow repositories.UnitOfWork) *fixture {
	t.Helper()
	clock := utils.NewFixedClock(day0)
	recorder := &events.Recorder{}
	m := metrics.NewLifecycleMetrics(prometheus.NewRegistry())
	repos := store.Repositories()

	return &fixture{
		store:    store,
		clock:    clock,
		recorder: recorder,
		metrics:  m,
		uow:      uow,
		subs:     NewSubscriptionService(repos, uow, clock, m, recorder, zap.NewNop()),
		txns:     NewTransactionService(repos.Transactions, clock, m, zap.NewNop()),
	}
}

// wrapSubscriptions rebuilds the lifecycle manager over a decorated
// subscription repository.
func (f *fixture) wrapSubscriptions(wrap func(repositories.SubscriptionRepository) repositories.SubscriptionRepository) {
	repos := f.store.Repositories()
	repos.Subscriptions = wrap(repos.Subscriptions)
	f.subs = NewSubscriptionService(repos, f.uow, f.clock, f.metrics, f.recorder, zap.NewNop())
}

func (f *fixture) plan(price int64, validityDays int32) dbm.Plan {
	return f.store.SeedPlan(dbm.Plan{
		Code:          "smart_" + uuid.NewString()[:8],
		Name:          "Smart",
		Type:          dbm.PlanTypePrepaid,
		Price:         price,
		ValidityDays:  validityDays,
		DataAllowance: "2GB",
		CallMinutes:   100,
		SmsQuota:      100,
	})
}

func (f *fixture) customer(name string) dbm.Account {
	return f.store.SeedAccount(dbm.Account{Name: name, Email: name + "@example.com", Role: dbm.RoleCustomer})
}

func (f *fixture) advanceDays(days int) {
	f.clock.Advance(time.Duration(days) * 24 * time.Hour)
}

// failingCreateUoW runs the real unit of work but fails every subscription insert.
type failingCreateUoW struct {
	inner repositories.UnitOfWork
}

func (u failingCreateUoW) Do(ctx context.Context, fn func(r repositories.Repositories) error) error {
	return u.inner.Do(ctx, func(r repositories.Repositories) error {
		r.Subscriptions = failingCreate{r.Subscriptions}
		return fn(r)
	})
}

type failingCreate struct {
	repositories.SubscriptionRepository
}

func (failingCreate) Create(context.Context, *dbm.Subscription) error {
	return errors.New("insert subscription: connection reset")
}

// failingTransition fails every status change of one row.
type failingTransition struct {
	repositories.SubscriptionRepository
	id uuid.UUID
}

func (r failingTransition) TransitionStatus(ctx context.Context, id uuid.UUID, t repositories.StatusTransition) (bool, error) {
	if id == r.id {
		return false, errors.New("boom")
	}
	return r.SubscriptionRepository.TransitionStatus(ctx, id, t)
}
