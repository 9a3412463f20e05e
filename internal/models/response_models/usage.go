package response_models

import (
	"time"

	"github.com/google/uuid"
)

type UsageRecordResponse struct {
	ID             uuid.UUID `json:"id"`
	CustomerID     uuid.UUID `json:"customer_id"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
	DataUsed       int64     `json:"data_used_mb"`
	CallsUsed      int64     `json:"calls_used_minutes"`
	SmsUsed        int64     `json:"sms_used"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type MonthlyUsageSummary struct {
	CustomerID       uuid.UUID `json:"customer_id"`
	Year             int       `json:"year"`
	Month            int       `json:"month"`
	TotalData        int64     `json:"total_data_mb"`
	TotalCalls       int64     `json:"total_calls_minutes"`
	TotalSms         int64     `json:"total_sms"`
	Records          int       `json:"record_count"`
	AverageDailyData float64   `json:"average_daily_data_mb"`
}

type UsageStatistics struct {
	Period          string  `json:"period"`
	Records         int     `json:"record_count"`
	UniqueUsers     int     `json:"unique_users"`
	TotalData       int64   `json:"total_data_mb"`
	TotalCalls      int64   `json:"total_calls_minutes"`
	TotalSms        int64   `json:"total_sms"`
	AvgDataPerUser  float64 `json:"average_data_per_user"`
	AvgCallsPerUser float64 `json:"average_calls_per_user"`
	AvgSmsPerUser   float64 `json:"average_sms_per_user"`
}

type HeavyUser struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name,omitempty"`
	UsageType  string    `json:"usage_type"`
	Total      int64     `json:"total"`
}

type UsagePatterns struct {
	CustomerID     uuid.UUID  `json:"customer_id"`
	Records        int        `json:"record_count"`
	AvgDailyData   float64    `json:"average_daily_data_mb"`
	AvgDailyCalls  float64    `json:"average_daily_calls"`
	AvgDailySms    float64    `json:"average_daily_sms"`
	PeakDataDay    *time.Time `json:"peak_data_day,omitempty"`
	PeakDataUsage  int64      `json:"peak_data_usage_mb"`
	DataUsageTrend string     `json:"data_usage_trend,omitempty"`
}

type QuotaRemaining struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	PlanID         uuid.UUID `json:"plan_id"`
	PlanName       string    `json:"plan_name"`
	DataAllowance  string    `json:"data_allowance"`
	DataUsedMB     int64     `json:"data_used_mb"`
	// Nil when the allowance is not expressed in GB (e.g. "Unlimited").
	DataRemainingMB *int64 `json:"data_remaining_mb,omitempty"`
	CallsUsed       int64  `json:"calls_used"`
	CallsRemaining  int64  `json:"calls_remaining"`
	SmsUsed         int64  `json:"sms_used"`
	SmsRemaining    int64  `json:"sms_remaining"`
}
