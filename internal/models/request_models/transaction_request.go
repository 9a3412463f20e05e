package request_models

import "github.com/shopspring/decimal"

type RecordTransactionRequest struct {
	CustomerID    string           `json:"customer_id" binding:"required,uuid"`
	PlanID        *string          `json:"plan_id" binding:"omitempty,uuid"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	Type          string           `json:"type" binding:"required,oneof=RECHARGE REFUND SUBSCRIPTION PLAN_PURCHASE"`
	PaymentMethod string           `json:"payment_method" binding:"required"`
}

type MarkFailedRequest struct {
	Reason string `json:"reason" binding:"required"`
}
