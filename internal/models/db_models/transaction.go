package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TxnStatusPending   TransactionStatus = "PENDING"
	TxnStatusSuccess   TransactionStatus = "SUCCESS"
	TxnStatusFailed    TransactionStatus = "FAILED"
	TxnStatusCancelled TransactionStatus = "CANCELLED"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TxnStatusPending, TxnStatusSuccess, TxnStatusFailed, TxnStatusCancelled:
		return true
	}
	return false
}

type TransactionType string

const (
	TxnTypeRecharge     TransactionType = "RECHARGE"
	TxnTypeRefund       TransactionType = "REFUND"
	TxnTypeSubscription TransactionType = "SUBSCRIPTION"
	TxnTypePlanPurchase TransactionType = "PLAN_PURCHASE"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxnTypeRecharge, TxnTypeRefund, TxnTypeSubscription, TxnTypePlanPurchase:
		return true
	}
	return false
}

// PaymentMethodRetailer marks subscriptions sold over the counter.
const PaymentMethodRetailer = "RETAILER_TRANSACTION"

type Transaction struct {
	BaseModel
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	RetailerID *uuid.UUID `gorm:"type:uuid;index"`
	PlanID     *uuid.UUID `gorm:"type:uuid"`

	Amount        decimal.Decimal   `gorm:"type:numeric(14,2);not null"`
	Type          TransactionType   `gorm:"type:varchar(16);not null;index"`
	Status        TransactionStatus `gorm:"type:varchar(16);not null;index"`
	PaymentMethod string
	TransactedAt  int64 `gorm:"not null;index"`

	FailureReason *string
	// Set on records created by a retry; points at the FAILED original.
	RetryOf *uuid.UUID `gorm:"type:uuid;index"`
}
