// Package memory is an in-process storage backend implementing every
// repository contract. It backs DB_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"telecore/internal/models/db_models"
	"telecore/internal/repositories"
	"telecore/pkg/utils"
)

type Store struct {
	mu sync.RWMutex

	plans    table[db_models.Plan]
	subs     table[db_models.Subscription]
	txns     table[db_models.Transaction]
	usage    table[db_models.UsageRecord]
	accounts table[db_models.Account]
}

// table keeps rows in insertion order so scans are deterministic.
type table[T any] struct {
	rows  map[uuid.UUID]*T
	order []uuid.UUID
}

func (t *table[T]) put(id uuid.UUID, row T) {
	if t.rows == nil {
		t.rows = make(map[uuid.UUID]*T)
	}
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = &row
}

func (t *table[T]) remove(id uuid.UUID) {
	if _, ok := t.rows[id]; !ok {
		return
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *table[T]) get(id uuid.UUID) (T, bool) {
	var zero T
	row, ok := t.rows[id]
	if !ok {
		return zero, false
	}
	return *row, true
}

func (t *table[T]) each(fn func(row *T)) {
	for _, id := range t.order {
		fn(t.rows[id])
	}
}

func NewStore() *Store {
	return &Store{}
}

// Repositories exposes the store through the repository contracts.
func (s *Store) Repositories() repositories.Repositories {
	return s.repositories(nil)
}

func (s *Store) repositories(j *journal) repositories.Repositories {
	return repositories.Repositories{
		Plans:         planView{s},
		Subscriptions: subscriptionView{s: s, j: j},
		Transactions:  transactionView{s: s, j: j},
		Usage:         usageView{s},
		Accounts:      accountView{s},
	}
}

// Seed helpers for the catalog, identity projection and metering feed.

func (s *Store) SeedPlan(p db_models.Plan) db_models.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.EnsureID()
	stamp(&p.BaseModel)
	s.plans.put(p.ID, p)
	return p
}

func (s *Store) SeedAccount(a db_models.Account) db_models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.EnsureID()
	stamp(&a.BaseModel)
	s.accounts.put(a.ID, a)
	return a
}

func (s *Store) SeedUsage(u db_models.UsageRecord) db_models.UsageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.EnsureID()
	stamp(&u.BaseModel)
	s.usage.put(u.ID, u)
	return u
}

// SeedSubscription stores a row as is, bypassing lifecycle checks.
func (s *Store) SeedSubscription(sub db_models.Subscription) db_models.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub.EnsureID()
	stamp(&sub.BaseModel)
	s.subs.put(sub.ID, sub)
	return sub
}

func (s *Store) SeedTransaction(txn db_models.Transaction) db_models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn.EnsureID()
	stamp(&txn.BaseModel)
	s.txns.put(txn.ID, txn)
	return txn
}

// Counts is a test helper returning the number of stored subscriptions and transactions.
func (s *Store) Counts() (subscriptions, transactions int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs.order), len(s.txns.order)
}

func stamp(b *db_models.BaseModel) {
	now := utils.NowUnixSeconds()
	if b.CreatedAt == 0 {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// journal records undo steps for writes made inside a unit of work.
type journal struct {
	undo []func()
}

func (j *journal) record(fn func()) {
	if j != nil {
		j.undo = append(j.undo, fn)
	}
}

type unitOfWork struct {
	s *Store
	// Units of work are serialized so an undo never races another unit's writes.
	mu sync.Mutex
}

func (s *Store) UnitOfWork() repositories.UnitOfWork {
	return &unitOfWork{s: s}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(r repositories.Repositories) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	j := &journal{}
	if err := fn(u.s.repositories(j)); err != nil {
		u.s.mu.Lock()
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		u.s.mu.Unlock()
		return err
	}
	return nil
}

// ---------- Plans ----------

type planView struct{ s *Store }

func (v planView) GetPlanInfoById(_ context.Context, planID uuid.UUID) (*db_models.Plan, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	p, ok := v.s.plans.get(planID)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (v planView) GetAllPlans(_ context.Context) ([]db_models.Plan, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []db_models.Plan
	v.s.plans.each(func(p *db_models.Plan) { out = append(out, *p) })
	return out, nil
}

func (v planView) GetPlansByType(_ context.Context, planType db_models.PlanType) ([]db_models.Plan, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []db_models.Plan
	v.s.plans.each(func(p *db_models.Plan) {
		if p.Type == planType {
			out = append(out, *p)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

// ---------- Accounts ----------

type accountView struct{ s *Store }

func (v accountView) FindById(_ context.Context, id uuid.UUID) (*db_models.Account, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	a, ok := v.s.accounts.get(id)
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (v accountView) FindByIds(_ context.Context, ids []uuid.UUID) ([]db_models.Account, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []db_models.Account
	for _, id := range ids {
		if a, ok := v.s.accounts.get(id); ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// ---------- Usage ----------

type usageView struct{ s *Store }

func (v usageView) List(_ context.Context, f repositories.UsageFilter) ([]db_models.UsageRecord, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []db_models.UsageRecord
	v.s.usage.each(func(u *db_models.UsageRecord) {
		switch {
		case f.CustomerID != nil && u.CustomerID != *f.CustomerID:
		case f.SubscriptionID != nil && u.SubscriptionID != *f.SubscriptionID:
		case f.Since != nil && u.RecordedAt < *f.Since:
		case f.Until != nil && u.RecordedAt >= *f.Until:
		default:
			out = append(out, *u)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt < out[j].RecordedAt })
	return out, nil
}
