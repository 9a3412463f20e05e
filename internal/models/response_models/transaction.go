package response_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"telecore/internal/models/db_models"
	"telecore/pkg/utils"
)

type TransactionResponse struct {
	ID            uuid.UUID       `json:"id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	RetailerID    *uuid.UUID      `json:"retailer_id,omitempty"`
	PlanID        *uuid.UUID      `json:"plan_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	TransactedAt  time.Time       `json:"transacted_at"`
	FailureReason *string         `json:"failure_reason,omitempty"`
	RetryOf       *uuid.UUID      `json:"retry_of,omitempty"`
}

func NewTransactionResponse(t db_models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		CustomerID:    t.CustomerID,
		RetailerID:    t.RetailerID,
		PlanID:        t.PlanID,
		Amount:        t.Amount,
		Type:          string(t.Type),
		Status:        string(t.Status),
		PaymentMethod: t.PaymentMethod,
		TransactedAt:  utils.FromUnixSeconds(t.TransactedAt),
		FailureReason: t.FailureReason,
		RetryOf:       t.RetryOf,
	}
}

func NewTransactionResponses(txns []db_models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, NewTransactionResponse(t))
	}
	return out
}

type MonthlySpending struct {
	CustomerID    uuid.UUID       `json:"customer_id"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	TotalRefunded decimal.Decimal `json:"total_refunded"`
	NetSpent      decimal.Decimal `json:"net_spent"`
	Transactions  int             `json:"transaction_count"`
	AverageSpent  decimal.Decimal `json:"average_transaction"`
}
