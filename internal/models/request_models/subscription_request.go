package request_models

import "github.com/shopspring/decimal"

type SubscribeRequest struct {
	PlanID        string           `json:"plan_id" binding:"required,uuid"`
	PaymentMethod string           `json:"payment_method" binding:"required"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
}

// RetailerSubscribeRequest is used by retailers and admins selling a plan
// to a customer over the counter.
type RetailerSubscribeRequest struct {
	CustomerID string `json:"customer_id" binding:"required,uuid"`
	PlanID     string `json:"plan_id" binding:"required,uuid"`
}

type ExtendRequest struct {
	CustomerID string `json:"customer_id" binding:"required,uuid"`
	Days       int    `json:"days" binding:"required,gt=0"`
}
