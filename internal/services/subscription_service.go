package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"telecore/internal/events"
	"telecore/internal/metrics"
	dbm "telecore/internal/models/db_models"
	resp "telecore/internal/models/response_models"
	"telecore/internal/repositories"
	"telecore/pkg/utils"
)

// Requester is the caller of an ownership-gated operation. CanManageAny is
// resolved from the caller's role at the API boundary.
type Requester struct {
	ID           uuid.UUID
	CanManageAny bool
}

func (r Requester) owns(sub *dbm.Subscription) bool {
	return r.CanManageAny || sub.CustomerID == r.ID
}

type SubscriptionService interface {
	Subscribe(ctx context.Context, customerID, planID uuid.UUID, paymentMethod string, amount decimal.Decimal) (*resp.SubscribeResponse, error)
	SubscribeForCustomer(ctx context.Context, retailerID, customerID, planID uuid.UUID) (*resp.SubscribeResponse, error)
	Cancel(ctx context.Context, subscriptionID uuid.UUID, requester Requester) (*resp.SubscriptionResponse, error)
	Reactivate(ctx context.Context, subscriptionID uuid.UUID) (*resp.SubscriptionResponse, error)
	Extend(ctx context.Context, customerID uuid.UUID, days int) (*resp.ExtendResponse, error)
	SweepExpired(ctx context.Context) (int, error)
	Get(ctx context.Context, subscriptionID uuid.UUID, requester Requester) (*resp.SubscriptionResponse, error)
	List(ctx context.Context, filter repositories.SubscriptionFilter) ([]resp.SubscriptionResponse, error)
}

type subscriptionService struct {
	repos   repositories.Repositories
	uow     repositories.UnitOfWork
	clock   utils.Clock
	metrics metrics.LifecycleMetrics
	events  events.Publisher
	log     *zap.Logger
}

func NewSubscriptionService(
	repos repositories.Repositories,
	uow repositories.UnitOfWork,
	clock utils.Clock,
	m metrics.LifecycleMetrics,
	publisher events.Publisher,
	log *zap.Logger,
) SubscriptionService {
	return &subscriptionService{
		repos:   repos,
		uow:     uow,
		clock:   clock,
		metrics: m,
		events:  publisher,
		log:     log.Named("subscriptions"),
	}
}

// activation describes one paid enrollment: a ledger entry plus the
// subscription it pays for.
type activation struct {
	customerID    uuid.UUID
	retailerID    *uuid.UUID
	plan          *dbm.Plan
	paymentMethod string
	amount        decimal.Decimal
	txType        dbm.TransactionType
}

func (s *subscriptionService) loadPlan(ctx context.Context, planID uuid.UUID) (*dbm.Plan, error) {
	plan, err := s.repos.Plans.GetPlanInfoById(ctx, planID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	return plan, nil
}

func (s *subscriptionService) Subscribe(ctx context.Context, customerID, planID uuid.UUID, paymentMethod string, amount decimal.Decimal) (*resp.SubscribeResponse, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	if !utils.AmountMatchesPrice(amount, plan.Price) {
		s.metrics.IncRejected("amount_mismatch")
		return nil, fmt.Errorf("%w: paid %s, plan price %d", utils.ErrAmountMismatch, amount.StringFixed(2), plan.Price)
	}

	return s.activate(ctx, activation{
		customerID:    customerID,
		plan:          plan,
		paymentMethod: paymentMethod,
		amount:        amount,
		txType:        dbm.TxnTypeRecharge,
	})
}

func (s *subscriptionService) SubscribeForCustomer(ctx context.Context, retailerID, customerID, planID uuid.UUID) (*resp.SubscribeResponse, error) {
	customer, err := s.repos.Accounts.FindById(ctx, customerID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if customer == nil {
		return nil, utils.ErrCustomerNotFound
	}
	if customer.Role != dbm.RoleCustomer {
		return nil, utils.ErrInvalidCustomer
	}

	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	return s.activate(ctx, activation{
		customerID:    customerID,
		retailerID:    &retailerID,
		plan:          plan,
		paymentMethod: dbm.PaymentMethodRetailer,
		amount:        decimal.NewFromInt(plan.Price),
		txType:        dbm.TxnTypeSubscription,
	})
}

// activate appends the ledger entry and creates the subscription as one unit
// of work. A duplicate ACTIVE row aborts both writes.
func (s *subscriptionService) activate(ctx context.Context, a activation) (*resp.SubscribeResponse, error) {
	now := s.clock.Now().Unix()
	planID := a.plan.ID

	txn := &dbm.Transaction{
		CustomerID:    a.customerID,
		RetailerID:    a.retailerID,
		PlanID:        &planID,
		Amount:        a.amount,
		Type:          a.txType,
		Status:        dbm.TxnStatusSuccess,
		PaymentMethod: a.paymentMethod,
		TransactedAt:  now,
	}
	txn.ID = uuid.New()

	sub := &dbm.Subscription{
		CustomerID:    a.customerID,
		PlanID:        planID,
		Status:        dbm.SubStatusActive,
		ActivatedAt:   now,
		ExpiresAt:     utils.AddDays(now, int64(a.plan.ValidityDays)),
		ValidityDays:  a.plan.ValidityDays,
		PaymentMethod: a.paymentMethod,
		Metadata:      activationMetadata(txn.ID),
	}
	sub.ID = uuid.New()

	var staleExpired *dbm.Subscription

	err := s.uow.Do(ctx, func(r repositories.Repositories) error {
		existing, err := r.Subscriptions.FindActive(ctx, a.customerID, planID)
		if err != nil {
			return utils.DBError(err)
		}
		if existing != nil {
			// Flagged ACTIVE but already past expiry: the sweep has not
			// reached it yet, so it does not block a new enrollment.
			if existing.ExpiresAt >= now {
				return utils.ErrDuplicateActivePlan
			}
			ok, err := r.Subscriptions.TransitionStatus(ctx, existing.ID, repositories.StatusTransition{
				From:          []dbm.SubscriptionStatus{dbm.SubStatusActive},
				To:            dbm.SubStatusExpired,
				ExpiresBefore: &now,
			})
			if err != nil {
				return utils.DBError(err)
			}
			if !ok {
				return utils.ErrDuplicateActivePlan
			}
			staleExpired = existing
		}

		if err := r.Transactions.Insert(ctx, txn); err != nil {
			return utils.DBError(err)
		}

		if err := r.Subscriptions.Create(ctx, sub); err != nil {
			if errors.Is(err, utils.ErrDuplicateActivePlan) {
				return err
			}
			return fmt.Errorf("%w: %w", utils.ErrSubscriptionCreationFailedAfterPayment, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, utils.ErrDuplicateActivePlan) {
			s.metrics.IncRejected("duplicate_active_plan")
		}
		return nil, err
	}

	s.metrics.IncTransaction(string(txn.Type), string(txn.Status))
	s.metrics.IncSubscriptionEvent(string(events.SubscriptionCreated))
	if staleExpired != nil {
		s.metrics.IncSubscriptionEvent(string(events.SubscriptionExpired))
		s.publish(ctx, lifecycleEvent(events.SubscriptionExpired, staleExpired, dbm.SubStatusExpired, now))
	}
	evt := lifecycleEvent(events.SubscriptionCreated, sub, sub.Status, now)
	evt.TransactionID = txn.ID.String()
	s.publish(ctx, evt)

	s.log.Info("Subscription activated",
		zap.String("subscriptionID", sub.ID.String()),
		zap.String("customerID", a.customerID.String()),
		zap.String("planID", planID.String()),
		zap.String("transactionID", txn.ID.String()),
		zap.String("txType", string(txn.Type)),
	)

	return &resp.SubscribeResponse{
		Subscription: resp.NewSubscriptionResponse(*sub),
		Transaction:  resp.NewTransactionResponse(*txn),
	}, nil
}

func (s *subscriptionService) findSubscription(ctx context.Context, id uuid.UUID) (*dbm.Subscription, error) {
	sub, err := s.repos.Subscriptions.FindById(ctx, id)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if sub == nil {
		return nil, utils.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, subscriptionID uuid.UUID, requester Requester) (*resp.SubscriptionResponse, error) {
	sub, err := s.findSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !requester.owns(sub) {
		return nil, utils.ErrForbidden
	}
	if !sub.Status.CanTransitionTo(dbm.SubStatusCancelled) {
		return nil, utils.ErrInvalidStateForCancel
	}

	now := s.clock.Now().Unix()
	ok, err := s.repos.Subscriptions.TransitionStatus(ctx, sub.ID, repositories.StatusTransition{
		From:       dbm.SourcesOf(dbm.SubStatusCancelled),
		To:         dbm.SubStatusCancelled,
		CanceledAt: &now,
	})
	if err != nil {
		return nil, utils.DBError(err)
	}
	if !ok {
		// Lost the row to a concurrent sweep or cancel.
		return nil, utils.ErrInvalidStateForCancel
	}

	sub.Status = dbm.SubStatusCancelled
	sub.CanceledAt = &now

	s.metrics.IncSubscriptionEvent(string(events.SubscriptionCancelled))
	s.publish(ctx, lifecycleEvent(events.SubscriptionCancelled, sub, sub.Status, now))
	s.log.Info("Subscription cancelled",
		zap.String("subscriptionID", sub.ID.String()),
		zap.String("requesterID", requester.ID.String()),
	)

	out := resp.NewSubscriptionResponse(*sub)
	return &out, nil
}

func (s *subscriptionService) Reactivate(ctx context.Context, subscriptionID uuid.UUID) (*resp.SubscriptionResponse, error) {
	sub, err := s.findSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !sub.Status.CanTransitionTo(dbm.SubStatusActive) {
		return nil, utils.ErrInvalidStateForReactivate
	}

	now := s.clock.Now().Unix()
	transition := repositories.StatusTransition{
		From:            dbm.SourcesOf(dbm.SubStatusActive),
		To:              dbm.SubStatusActive,
		ClearCanceledAt: true,
	}
	expiresAt := sub.ExpiresAt
	if sub.ExpiresAt < now {
		expiresAt = utils.AddDays(now, int64(sub.ValidityDays))
		transition.ExpiresAt = &expiresAt
	}

	ok, err := s.repos.Subscriptions.TransitionStatus(ctx, sub.ID, transition)
	if err != nil {
		if errors.Is(err, utils.ErrDuplicateActivePlan) {
			s.metrics.IncRejected("duplicate_active_plan")
			return nil, err
		}
		return nil, utils.DBError(err)
	}
	if !ok {
		return nil, utils.ErrInvalidStateForReactivate
	}

	sub.Status = dbm.SubStatusActive
	sub.ExpiresAt = expiresAt
	sub.CanceledAt = nil

	s.metrics.IncSubscriptionEvent(string(events.SubscriptionReactivated))
	s.publish(ctx, lifecycleEvent(events.SubscriptionReactivated, sub, sub.Status, now))
	s.log.Info("Subscription reactivated",
		zap.String("subscriptionID", sub.ID.String()),
		zap.Time("expiresAt", utils.FromUnixSeconds(expiresAt)),
	)

	out := resp.NewSubscriptionResponse(*sub)
	return &out, nil
}

// Extend pushes the expiry of every ACTIVE subscription of the customer.
// Repeated calls compound.
func (s *subscriptionService) Extend(ctx context.Context, customerID uuid.UUID, days int) (*resp.ExtendResponse, error) {
	if days <= 0 {
		return nil, utils.ErrInvalidExtension
	}

	n, err := s.repos.Subscriptions.ExtendActive(ctx, customerID, int64(days)*utils.SecondsPerDay)
	if err != nil {
		return nil, utils.DBError(err)
	}

	if n > 0 {
		s.metrics.IncSubscriptionEvent(string(events.SubscriptionsExtended))
		s.publish(ctx, events.LifecycleEvent{
			Type:       events.SubscriptionsExtended,
			CustomerID: customerID.String(),
			OccurredAt: s.clock.Now().Unix(),
		})
	}
	s.log.Info("Subscriptions extended",
		zap.String("customerID", customerID.String()),
		zap.Int("days", days),
		zap.Int64("extended", n),
	)

	return &resp.ExtendResponse{CustomerID: customerID, Days: days, Extended: n}, nil
}

// SweepExpired moves every ACTIVE subscription whose expiry has passed to
// EXPIRED. Row failures are collected and do not stop the sweep.
func (s *subscriptionService) SweepExpired(ctx context.Context) (int, error) {
	now := s.clock.Now().Unix()

	candidates, err := s.repos.Subscriptions.FindExpiredCandidates(ctx, now)
	if err != nil {
		return 0, utils.DBError(err)
	}

	var (
		expired int
		errs    []error
	)
	for i := range candidates {
		sub := &candidates[i]
		ok, err := s.repos.Subscriptions.TransitionStatus(ctx, sub.ID, repositories.StatusTransition{
			From:          []dbm.SubscriptionStatus{dbm.SubStatusActive},
			To:            dbm.SubStatusExpired,
			ExpiresBefore: &now,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("expire subscription %s: %w", sub.ID, err))
			continue
		}
		if !ok {
			continue
		}
		expired++
		sub.Status = dbm.SubStatusExpired
		s.publish(ctx, lifecycleEvent(events.SubscriptionExpired, sub, sub.Status, now))
	}

	s.metrics.ObserveSweep(expired, len(errs))
	s.metrics.AddSubscriptionEvents(string(events.SubscriptionExpired), expired)

	sweepErr := errors.Join(errs...)
	if sweepErr != nil {
		s.log.Warn("Expiry sweep finished with errors",
			zap.Int("candidates", len(candidates)),
			zap.Int("expired", expired),
			zap.Int("failed", len(errs)),
			zap.Error(sweepErr),
		)
		return expired, utils.DBError(sweepErr)
	}
	s.log.Info("Expiry sweep finished", zap.Int("candidates", len(candidates)), zap.Int("expired", expired))
	return expired, nil
}

func (s *subscriptionService) Get(ctx context.Context, subscriptionID uuid.UUID, requester Requester) (*resp.SubscriptionResponse, error) {
	sub, err := s.findSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !requester.owns(sub) {
		return nil, utils.ErrForbidden
	}
	out := resp.NewSubscriptionResponse(*sub)
	return &out, nil
}

func (s *subscriptionService) List(ctx context.Context, filter repositories.SubscriptionFilter) ([]resp.SubscriptionResponse, error) {
	subs, err := s.repos.Subscriptions.List(ctx, filter)
	if err != nil {
		return nil, utils.DBError(err)
	}
	return resp.NewSubscriptionResponses(subs), nil
}

// publish is best effort: the state change is already committed.
func (s *subscriptionService) publish(ctx context.Context, evt events.LifecycleEvent) {
	if err := s.events.Publish(ctx, evt); err != nil {
		s.log.Warn("Failed to publish lifecycle event",
			zap.String("type", string(evt.Type)),
			zap.String("subscriptionID", evt.SubscriptionID),
			zap.Error(err),
		)
	}
}

func lifecycleEvent(t events.EventType, sub *dbm.Subscription, status dbm.SubscriptionStatus, at int64) events.LifecycleEvent {
	return events.LifecycleEvent{
		Type:           t,
		SubscriptionID: sub.ID.String(),
		CustomerID:     sub.CustomerID.String(),
		PlanID:         sub.PlanID.String(),
		Status:         string(status),
		ExpiresAt:      sub.ExpiresAt,
		OccurredAt:     at,
	}
}

func activationMetadata(txnID uuid.UUID) datatypes.JSON {
	return datatypes.JSON(fmt.Sprintf(`{"activated_by_txn":%q}`, txnID.String()))
}
