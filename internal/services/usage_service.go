package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	dbm "telecore/internal/models/db_models"
	resp "telecore/internal/models/response_models"
	"telecore/internal/repositories"
	"telecore/pkg/utils"
)

const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"

	trendWindow = 7
	mbPerGB     = 1024
)

type UsageService interface {
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]resp.UsageRecordResponse, error)
	ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]resp.UsageRecordResponse, error)
	MonthlySummary(ctx context.Context, customerID uuid.UUID, year, month int) (*resp.MonthlyUsageSummary, error)
	UsageStatistics(ctx context.Context, period string) (*resp.UsageStatistics, error)
	HeavyUsers(ctx context.Context, usageType string, limit int) ([]resp.HeavyUser, error)
	CustomerPatterns(ctx context.Context, customerID uuid.UUID) (*resp.UsagePatterns, error)
	QuotaRemaining(ctx context.Context, customerID uuid.UUID) ([]resp.QuotaRemaining, error)
}

type usageService struct {
	repos repositories.Repositories
	clock utils.Clock
}

func NewUsageService(repos repositories.Repositories, clock utils.Clock) UsageService {
	return &usageService{repos: repos, clock: clock}
}

func (u *usageService) list(ctx context.Context, f repositories.UsageFilter) ([]dbm.UsageRecord, error) {
	records, err := u.repos.Usage.List(ctx, f)
	if err != nil {
		return nil, utils.DBError(err)
	}
	return records, nil
}

func (u *usageService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]resp.UsageRecordResponse, error) {
	records, err := u.list(ctx, repositories.UsageFilter{CustomerID: &customerID})
	if err != nil {
		return nil, err
	}
	return usageResponses(records), nil
}

func (u *usageService) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]resp.UsageRecordResponse, error) {
	records, err := u.list(ctx, repositories.UsageFilter{SubscriptionID: &subscriptionID})
	if err != nil {
		return nil, err
	}
	return usageResponses(records), nil
}

func (u *usageService) MonthlySummary(ctx context.Context, customerID uuid.UUID, year, month int) (*resp.MonthlyUsageSummary, error) {
	start, end, err := monthWindow(u.clock.Now(), year, month)
	if err != nil {
		return nil, err
	}
	since, until := start.Unix(), end.Unix()
	records, err := u.list(ctx, repositories.UsageFilter{CustomerID: &customerID, Since: &since, Until: &until})
	if err != nil {
		return nil, err
	}
	out := SummarizeMonth(customerID, start, records)
	return &out, nil
}

func (u *usageService) UsageStatistics(ctx context.Context, period string) (*resp.UsageStatistics, error) {
	since, normalized, err := periodStart(u.clock.Now(), period)
	if err != nil {
		return nil, err
	}
	records, err := u.list(ctx, repositories.UsageFilter{Since: since})
	if err != nil {
		return nil, err
	}
	out := ComputeUsageStatistics(records, normalized)
	return &out, nil
}

func (u *usageService) HeavyUsers(ctx context.Context, usageType string, limit int) ([]resp.HeavyUser, error) {
	t := dbm.UsageType(usageType)
	if !t.Valid() {
		return nil, utils.ErrInvalidUsageType
	}
	if limit <= 0 {
		return nil, utils.ErrInvalidLimit
	}

	records, err := u.list(ctx, repositories.UsageFilter{})
	if err != nil {
		return nil, err
	}
	ranked := RankHeavyUsers(records, t, limit)

	ids := make([]uuid.UUID, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.CustomerID)
	}
	accounts, err := u.repos.Accounts.FindByIds(ctx, ids)
	if err != nil {
		return nil, utils.DBError(err)
	}
	names := make(map[uuid.UUID]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}
	for i := range ranked {
		ranked[i].Name = names[ranked[i].CustomerID]
	}
	return ranked, nil
}

func (u *usageService) CustomerPatterns(ctx context.Context, customerID uuid.UUID) (*resp.UsagePatterns, error) {
	records, err := u.list(ctx, repositories.UsageFilter{CustomerID: &customerID})
	if err != nil {
		return nil, err
	}
	out := ComputeUsagePatterns(customerID, records)
	return &out, nil
}

// QuotaRemaining reports plan allowance minus usage recorded in the last 30
// days, for each ACTIVE subscription of the customer.
func (u *usageService) QuotaRemaining(ctx context.Context, customerID uuid.UUID) ([]resp.QuotaRemaining, error) {
	active := dbm.SubStatusActive
	subs, err := u.repos.Subscriptions.List(ctx, repositories.SubscriptionFilter{CustomerID: &customerID, Status: &active})
	if err != nil {
		return nil, utils.DBError(err)
	}

	since := u.clock.Now().Add(-trailingWindow).Unix()
	out := make([]resp.QuotaRemaining, 0, len(subs))
	for _, s := range subs {
		plan, err := u.repos.Plans.GetPlanInfoById(ctx, s.PlanID)
		if err != nil {
			return nil, utils.DBError(err)
		}
		if plan == nil {
			continue
		}
		subID := s.ID
		records, err := u.list(ctx, repositories.UsageFilter{SubscriptionID: &subID, Since: &since})
		if err != nil {
			return nil, err
		}
		out = append(out, ComputeQuota(s, *plan, records))
	}
	return out, nil
}

// RankHeavyUsers totals usage per customer and returns the top limit in
// descending order. Ties keep the order in which customers first appear in
// records, which callers should treat as unspecified.
func RankHeavyUsers(records []dbm.UsageRecord, t dbm.UsageType, limit int) []resp.HeavyUser {
	totals := make(map[uuid.UUID]int64)
	var order []uuid.UUID
	for _, r := range records {
		if _, seen := totals[r.CustomerID]; !seen {
			order = append(order, r.CustomerID)
		}
		totals[r.CustomerID] += r.Amount(t)
	}

	ranked := make([]resp.HeavyUser, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, resp.HeavyUser{CustomerID: id, UsageType: string(t), Total: totals[id]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Total > ranked[j].Total })

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// DetectTrend compares the mean data usage of the latest and the earliest
// records (up to seven each) in ascending date order. Histories shorter than
// seven records average over all of them, so both windows share rows. Fewer
// than two records yield an empty trend.
func DetectTrend(records []dbm.UsageRecord) string {
	if len(records) < 2 {
		return ""
	}
	sorted := make([]dbm.UsageRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].RecordedAt < sorted[j].RecordedAt })

	n := len(sorted)
	w := trendWindow
	if n < w {
		w = n
	}
	recent := meanData(sorted[n-w:])
	earliest := meanData(sorted[:w])

	switch {
	case recent > earliest:
		return TrendIncreasing
	case recent < earliest:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func meanData(records []dbm.UsageRecord) float64 {
	var sum int64
	for _, r := range records {
		sum += r.DataUsed
	}
	return float64(sum) / float64(len(records))
}

func SummarizeMonth(customerID uuid.UUID, monthStart time.Time, records []dbm.UsageRecord) resp.MonthlyUsageSummary {
	out := resp.MonthlyUsageSummary{
		CustomerID: customerID,
		Year:       monthStart.Year(),
		Month:      int(monthStart.Month()),
		Records:    len(records),
	}
	for _, r := range records {
		out.TotalData += r.DataUsed
		out.TotalCalls += r.CallsUsed
		out.TotalSms += r.SmsUsed
	}
	days := utils.DaysInMonth(monthStart.Year(), monthStart.Month())
	out.AverageDailyData = utils.Round2(float64(out.TotalData) / float64(days))
	return out
}

func ComputeUsageStatistics(records []dbm.UsageRecord, period string) resp.UsageStatistics {
	out := resp.UsageStatistics{Period: period, Records: len(records)}
	users := make(map[uuid.UUID]struct{})
	for _, r := range records {
		users[r.CustomerID] = struct{}{}
		out.TotalData += r.DataUsed
		out.TotalCalls += r.CallsUsed
		out.TotalSms += r.SmsUsed
	}
	out.UniqueUsers = len(users)
	if out.UniqueUsers > 0 {
		n := float64(out.UniqueUsers)
		out.AvgDataPerUser = utils.Round2(float64(out.TotalData) / n)
		out.AvgCallsPerUser = utils.Round2(float64(out.TotalCalls) / n)
		out.AvgSmsPerUser = utils.Round2(float64(out.TotalSms) / n)
	}
	return out
}

func ComputeUsagePatterns(customerID uuid.UUID, records []dbm.UsageRecord) resp.UsagePatterns {
	out := resp.UsagePatterns{CustomerID: customerID, Records: len(records)}
	if len(records) == 0 {
		return out
	}

	var data, calls, sms int64
	peak := -1
	for i, r := range records {
		data += r.DataUsed
		calls += r.CallsUsed
		sms += r.SmsUsed
		if peak < 0 || r.DataUsed > records[peak].DataUsed {
			peak = i
		}
	}
	n := float64(len(records))
	out.AvgDailyData = utils.Round2(float64(data) / n)
	out.AvgDailyCalls = utils.Round2(float64(calls) / n)
	out.AvgDailySms = utils.Round2(float64(sms) / n)

	day := utils.StartOfDay(utils.FromUnixSeconds(records[peak].RecordedAt))
	out.PeakDataDay = &day
	out.PeakDataUsage = records[peak].DataUsed
	out.DataUsageTrend = DetectTrend(records)
	return out
}

func ComputeQuota(sub dbm.Subscription, plan dbm.Plan, records []dbm.UsageRecord) resp.QuotaRemaining {
	out := resp.QuotaRemaining{
		SubscriptionID: sub.ID,
		PlanID:         plan.ID,
		PlanName:       plan.Name,
		DataAllowance:  plan.DataAllowance,
	}
	for _, r := range records {
		out.DataUsedMB += r.DataUsed
		out.CallsUsed += r.CallsUsed
		out.SmsUsed += r.SmsUsed
	}
	if gb, ok := plan.DataAllowanceGB(); ok {
		remaining := nonNegative(int64(math.Round(gb*mbPerGB)) - out.DataUsedMB)
		out.DataRemainingMB = &remaining
	}
	out.CallsRemaining = nonNegative(int64(plan.CallMinutes) - out.CallsUsed)
	out.SmsRemaining = nonNegative(int64(plan.SmsQuota) - out.SmsUsed)
	return out
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func usageResponses(records []dbm.UsageRecord) []resp.UsageRecordResponse {
	out := make([]resp.UsageRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, resp.UsageRecordResponse{
			ID:             r.ID,
			CustomerID:     r.CustomerID,
			SubscriptionID: r.SubscriptionID,
			DataUsed:       r.DataUsed,
			CallsUsed:      r.CallsUsed,
			SmsUsed:        r.SmsUsed,
			RecordedAt:     utils.FromUnixSeconds(r.RecordedAt),
		})
	}
	return out
}
