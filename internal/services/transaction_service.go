package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"telecore/internal/metrics"
	dbm "telecore/internal/models/db_models"
	resp "telecore/internal/models/response_models"
	"telecore/internal/repositories"
	"telecore/pkg/utils"
)

type RecordTransactionInput struct {
	CustomerID    uuid.UUID
	RetailerID    *uuid.UUID
	PlanID        *uuid.UUID
	Amount        decimal.Decimal
	Type          dbm.TransactionType
	PaymentMethod string
}

type TransactionService interface {
	Record(ctx context.Context, in RecordTransactionInput) (*resp.TransactionResponse, error)
	MarkFailed(ctx context.Context, transactionID uuid.UUID, reason string) (*resp.TransactionResponse, error)
	Retry(ctx context.Context, transactionID uuid.UUID) (*resp.TransactionResponse, error)
	Get(ctx context.Context, transactionID uuid.UUID) (*resp.TransactionResponse, error)
	List(ctx context.Context, filter repositories.TransactionFilter) ([]resp.TransactionResponse, error)
	MonthlySpending(ctx context.Context, customerID uuid.UUID, year, month int) (*resp.MonthlySpending, error)
}

type transactionService struct {
	repo    repositories.TransactionRepository
	clock   utils.Clock
	metrics metrics.LifecycleMetrics
	log     *zap.Logger
}

func NewTransactionService(repo repositories.TransactionRepository, clock utils.Clock, m metrics.LifecycleMetrics, log *zap.Logger) TransactionService {
	return &transactionService{
		repo:    repo,
		clock:   clock,
		metrics: m,
		log:     log.Named("ledger"),
	}
}

// Record appends a settled transaction. Every recorded transaction starts as SUCCESS.
func (t *transactionService) Record(ctx context.Context, in RecordTransactionInput) (*resp.TransactionResponse, error) {
	if !in.Type.Valid() {
		return nil, utils.ErrInvalidTxnType
	}
	if !in.Amount.IsPositive() {
		return nil, utils.ErrInvalidAmount
	}

	txn := &dbm.Transaction{
		CustomerID:    in.CustomerID,
		RetailerID:    in.RetailerID,
		PlanID:        in.PlanID,
		Amount:        in.Amount.Round(2),
		Type:          in.Type,
		Status:        dbm.TxnStatusSuccess,
		PaymentMethod: in.PaymentMethod,
		TransactedAt:  t.clock.Now().Unix(),
	}
	if err := t.repo.Insert(ctx, txn); err != nil {
		return nil, utils.DBError(err)
	}

	t.metrics.IncTransaction(string(txn.Type), string(txn.Status))
	t.log.Info("Transaction recorded",
		zap.String("transactionID", txn.ID.String()),
		zap.String("type", string(txn.Type)),
		zap.String("amount", txn.Amount.StringFixed(2)),
	)

	out := resp.NewTransactionResponse(*txn)
	return &out, nil
}

func (t *transactionService) find(ctx context.Context, id uuid.UUID) (*dbm.Transaction, error) {
	txn, err := t.repo.FindById(ctx, id)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if txn == nil {
		return nil, utils.ErrTransactionNotFound
	}
	return txn, nil
}

// MarkFailed is the compensating correction SUCCESS -> FAILED.
func (t *transactionService) MarkFailed(ctx context.Context, transactionID uuid.UUID, reason string) (*resp.TransactionResponse, error) {
	txn, err := t.find(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != dbm.TxnStatusSuccess {
		return nil, utils.ErrInvalidStateForMarkFailed
	}

	ok, err := t.repo.UpdateStatus(ctx, txn.ID, dbm.TxnStatusSuccess, dbm.TxnStatusFailed, &reason)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if !ok {
		return nil, utils.ErrInvalidStateForMarkFailed
	}

	txn.Status = dbm.TxnStatusFailed
	txn.FailureReason = &reason
	t.metrics.IncTransaction(string(txn.Type), string(txn.Status))
	t.log.Info("Transaction marked failed", zap.String("transactionID", txn.ID.String()), zap.String("reason", reason))

	out := resp.NewTransactionResponse(*txn)
	return &out, nil
}

// Retry appends a new SUCCESS copy of a FAILED transaction. The original is left untouched.
func (t *transactionService) Retry(ctx context.Context, transactionID uuid.UUID) (*resp.TransactionResponse, error) {
	original, err := t.find(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if original.Status != dbm.TxnStatusFailed {
		return nil, utils.ErrInvalidStateForRetry
	}

	retryOf := original.ID
	txn := &dbm.Transaction{
		CustomerID:    original.CustomerID,
		RetailerID:    original.RetailerID,
		PlanID:        original.PlanID,
		Amount:        original.Amount,
		Type:          original.Type,
		Status:        dbm.TxnStatusSuccess,
		PaymentMethod: original.PaymentMethod,
		TransactedAt:  t.clock.Now().Unix(),
		RetryOf:       &retryOf,
	}
	if err := t.repo.Insert(ctx, txn); err != nil {
		return nil, utils.DBError(err)
	}

	t.metrics.IncTransaction(string(txn.Type), string(txn.Status))
	t.log.Info("Transaction retried",
		zap.String("transactionID", txn.ID.String()),
		zap.String("retryOf", retryOf.String()),
	)

	out := resp.NewTransactionResponse(*txn)
	return &out, nil
}

func (t *transactionService) Get(ctx context.Context, transactionID uuid.UUID) (*resp.TransactionResponse, error) {
	txn, err := t.find(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	out := resp.NewTransactionResponse(*txn)
	return &out, nil
}

func (t *transactionService) List(ctx context.Context, filter repositories.TransactionFilter) ([]resp.TransactionResponse, error) {
	txns, err := t.repo.List(ctx, filter)
	if err != nil {
		return nil, utils.DBError(err)
	}
	return resp.NewTransactionResponses(txns), nil
}

// MonthlySpending summarizes successful money movement for one UTC calendar
// month. Spend counts RECHARGE only and refunds are netted against it; other
// types show up in the transaction count alone. A zero year or month means the
// current one.
func (t *transactionService) MonthlySpending(ctx context.Context, customerID uuid.UUID, year, month int) (*resp.MonthlySpending, error) {
	start, end, err := monthWindow(t.clock.Now(), year, month)
	if err != nil {
		return nil, err
	}

	since, until := start.Unix(), end.Unix()
	success := dbm.TxnStatusSuccess
	txns, err := t.repo.List(ctx, repositories.TransactionFilter{
		CustomerID: &customerID,
		Status:     &success,
		Since:      &since,
		Until:      &until,
	})
	if err != nil {
		return nil, utils.DBError(err)
	}

	out := &resp.MonthlySpending{
		CustomerID:    customerID,
		Year:          start.Year(),
		Month:         int(start.Month()),
		TotalSpent:    decimal.Zero,
		TotalRefunded: decimal.Zero,
		AverageSpent:  decimal.Zero,
	}
	var rechargeCount int64
	for _, txn := range txns {
		switch txn.Type {
		case dbm.TxnTypeRecharge:
			out.TotalSpent = out.TotalSpent.Add(txn.Amount)
			rechargeCount++
		case dbm.TxnTypeRefund:
			out.TotalRefunded = out.TotalRefunded.Add(txn.Amount)
		}
	}
	out.Transactions = len(txns)
	out.NetSpent = out.TotalSpent.Sub(out.TotalRefunded)
	if rechargeCount > 0 {
		out.AverageSpent = out.TotalSpent.Div(decimal.NewFromInt(rechargeCount)).Round(2)
	}
	return out, nil
}

// monthWindow resolves [start, end) of a UTC calendar month.
func monthWindow(now time.Time, year, month int) (time.Time, time.Time, error) {
	if year == 0 {
		year = now.UTC().Year()
	}
	if month == 0 {
		month = int(now.UTC().Month())
	}
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, utils.ErrInvalidMonth
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), nil
}
