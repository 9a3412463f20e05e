package response_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SubscriptionStatistics struct {
	Total              int64   `json:"total_subscriptions"`
	Active             int64   `json:"active_subscriptions"`
	Expired            int64   `json:"expired_subscriptions"`
	Cancelled          int64   `json:"cancelled_subscriptions"`
	TotalActiveRevenue int64   `json:"total_active_revenue"`
	CurrentMonth       int64   `json:"current_month_subscriptions"`
	PreviousMonth      int64   `json:"previous_month_subscriptions"`
	MonthlyGrowthPct   float64 `json:"monthly_growth_rate"`
	ChurnRatePct       float64 `json:"churn_rate"`
}

type PlanPerformance struct {
	PlanID            uuid.UUID `json:"plan_id"`
	PlanName          string    `json:"plan_name"`
	PlanType          string    `json:"plan_type"`
	Price             int64     `json:"price"`
	ActiveSubscribers int64     `json:"active_subscribers"`
	TotalSubscribers  int64     `json:"total_subscribers"`
	Revenue           int64     `json:"revenue"`
	ChurnRatePct      float64   `json:"churn_rate"`
	Satisfaction      float64   `json:"satisfaction_score"`
	GrowthRatePct     float64   `json:"growth_rate"`
}

type PlanSummary struct {
	PlanID uuid.UUID `json:"plan_id"`
	Name   string    `json:"name"`
	Price  int64     `json:"price"`
}

type PlanStatistics struct {
	TotalPlans     int64        `json:"total_plans"`
	PrepaidPlans   int64        `json:"prepaid_plans"`
	PostpaidPlans  int64        `json:"postpaid_plans"`
	AveragePrice   float64      `json:"average_price"`
	MostExpensive  *PlanSummary `json:"most_expensive,omitempty"`
	MostAffordable *PlanSummary `json:"most_affordable,omitempty"`
}

type TransactionStatistics struct {
	Period         string          `json:"period"`
	Total          int64           `json:"total_transactions"`
	Successful     int64           `json:"successful_transactions"`
	Failed         int64           `json:"failed_transactions"`
	Revenue        decimal.Decimal `json:"total_revenue"`
	Refunds        decimal.Decimal `json:"total_refunds"`
	NetRevenue     decimal.Decimal `json:"net_revenue"`
	SuccessRatePct float64         `json:"success_rate"`
}
