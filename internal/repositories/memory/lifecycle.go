package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"telecore/internal/models/db_models"
	"telecore/internal/repositories"
	"telecore/pkg/utils"
)

// ---------- Subscriptions ----------

type subscriptionView struct {
	s *Store
	j *journal
}

// activeConflict mirrors the partial unique index on (customer_id, plan_id)
// WHERE status = 'ACTIVE'. Caller holds the write lock.
func (v subscriptionView) activeConflict(self uuid.UUID, customerID, planID uuid.UUID) bool {
	conflict := false
	v.s.subs.each(func(row *db_models.Subscription) {
		if row.ID != self && row.Status == db_models.SubStatusActive &&
			row.CustomerID == customerID && row.PlanID == planID {
			conflict = true
		}
	})
	return conflict
}

func (v subscriptionView) Create(_ context.Context, sub *db_models.Subscription) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	sub.EnsureID()
	if sub.Status == db_models.SubStatusActive && v.activeConflict(sub.ID, sub.CustomerID, sub.PlanID) {
		return utils.ErrDuplicateActivePlan
	}
	stamp(&sub.BaseModel)
	v.s.subs.put(sub.ID, *sub)

	id := sub.ID
	v.j.record(func() { v.s.subs.remove(id) })
	return nil
}

func (v subscriptionView) FindById(_ context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	sub, ok := v.s.subs.get(id)
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (v subscriptionView) FindActive(_ context.Context, customerID, planID uuid.UUID) (*db_models.Subscription, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var found *db_models.Subscription
	v.s.subs.each(func(row *db_models.Subscription) {
		if found == nil && row.Status == db_models.SubStatusActive &&
			row.CustomerID == customerID && row.PlanID == planID {
			cp := *row
			found = &cp
		}
	})
	return found, nil
}

func (v subscriptionView) List(_ context.Context, f repositories.SubscriptionFilter) ([]db_models.Subscription, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []db_models.Subscription
	v.s.subs.each(func(row *db_models.Subscription) {
		switch {
		case f.CustomerID != nil && row.CustomerID != *f.CustomerID:
		case f.PlanID != nil && row.PlanID != *f.PlanID:
		case f.Status != nil && row.Status != *f.Status:
		default:
			out = append(out, *row)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ActivatedAt < out[j].ActivatedAt })
	return out, nil
}

func (v subscriptionView) FindExpiredCandidates(_ context.Context, now int64) ([]db_models.Subscription, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []db_models.Subscription
	v.s.subs.each(func(row *db_models.Subscription) {
		if row.Status == db_models.SubStatusActive && row.ExpiresAt < now {
			out = append(out, *row)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiresAt < out[j].ExpiresAt })
	return out, nil
}

func (v subscriptionView) TransitionStatus(_ context.Context, id uuid.UUID, t repositories.StatusTransition) (bool, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	row, ok := v.s.subs.rows[id]
	if !ok || !containsStatus(t.From, row.Status) {
		return false, nil
	}
	if t.ExpiresBefore != nil && row.ExpiresAt >= *t.ExpiresBefore {
		return false, nil
	}
	if t.To == db_models.SubStatusActive && v.activeConflict(row.ID, row.CustomerID, row.PlanID) {
		return false, utils.ErrDuplicateActivePlan
	}

	before := *row
	row.Status = t.To
	if t.ExpiresAt != nil {
		row.ExpiresAt = *t.ExpiresAt
	}
	if t.CanceledAt != nil {
		at := *t.CanceledAt
		row.CanceledAt = &at
	}
	if t.ClearCanceledAt {
		row.CanceledAt = nil
	}
	row.UpdatedAt = utils.NowUnixSeconds()

	to := t.To
	v.j.record(func() {
		if cur, ok := v.s.subs.rows[id]; ok && cur.Status == to {
			*cur = before
		}
	})
	return true, nil
}

func (v subscriptionView) ExtendActive(_ context.Context, customerID uuid.UUID, seconds int64) (int64, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	var n int64
	v.s.subs.each(func(row *db_models.Subscription) {
		if row.CustomerID == customerID && row.Status == db_models.SubStatusActive {
			row.ExpiresAt += seconds
			row.UpdatedAt = utils.NowUnixSeconds()
			n++
		}
	})
	return n, nil
}

func containsStatus(set []db_models.SubscriptionStatus, s db_models.SubscriptionStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// ---------- Transactions ----------

type transactionView struct {
	s *Store
	j *journal
}

func (v transactionView) Insert(_ context.Context, txn *db_models.Transaction) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	txn.EnsureID()
	stamp(&txn.BaseModel)
	v.s.txns.put(txn.ID, *txn)

	id := txn.ID
	v.j.record(func() { v.s.txns.remove(id) })
	return nil
}

func (v transactionView) FindById(_ context.Context, id uuid.UUID) (*db_models.Transaction, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	txn, ok := v.s.txns.get(id)
	if !ok {
		return nil, nil
	}
	return &txn, nil
}

func (v transactionView) List(_ context.Context, f repositories.TransactionFilter) ([]db_models.Transaction, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []db_models.Transaction
	v.s.txns.each(func(row *db_models.Transaction) {
		switch {
		case f.CustomerID != nil && row.CustomerID != *f.CustomerID:
		case f.RetailerID != nil && (row.RetailerID == nil || *row.RetailerID != *f.RetailerID):
		case f.Status != nil && row.Status != *f.Status:
		case f.Type != nil && row.Type != *f.Type:
		case f.Since != nil && row.TransactedAt < *f.Since:
		case f.Until != nil && row.TransactedAt >= *f.Until:
		default:
			out = append(out, *row)
		}
	})
	// Newest first; ties keep the later insert first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TransactedAt > out[j].TransactedAt })
	return out, nil
}

func (v transactionView) UpdateStatus(_ context.Context, id uuid.UUID, from, to db_models.TransactionStatus, reason *string) (bool, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	row, ok := v.s.txns.rows[id]
	if !ok || row.Status != from {
		return false, nil
	}
	before := *row
	row.Status = to
	if reason != nil {
		r := *reason
		row.FailureReason = &r
	}
	row.UpdatedAt = utils.NowUnixSeconds()

	v.j.record(func() {
		if cur, ok := v.s.txns.rows[id]; ok && cur.Status == to {
			*cur = before
		}
	})
	return true, nil
}
