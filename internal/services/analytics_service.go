package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbm "telecore/internal/models/db_models"
	resp "telecore/internal/models/response_models"
	"telecore/internal/repositories"
	"telecore/pkg/utils"
)

const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"

	trailingWindow = 30 * 24 * time.Hour
)

// periodStart maps a period keyword to its inclusive lower bound. A nil
// bound means no cutoff. The empty keyword is treated as "all".
func periodStart(now time.Time, period string) (*int64, string, error) {
	var start time.Time
	p := strings.ToLower(strings.TrimSpace(period))
	switch p {
	case "", PeriodAll:
		return nil, PeriodAll, nil
	case PeriodToday:
		start = utils.StartOfDay(now)
	case PeriodWeek:
		start = now.AddDate(0, 0, -7)
	case PeriodMonth:
		start = now.AddDate(0, -1, 0)
	case PeriodYear:
		start = now.AddDate(-1, 0, 0)
	default:
		return nil, "", utils.ErrInvalidPeriod
	}
	cutoff := start.Unix()
	return &cutoff, p, nil
}

// AnalyticsService derives read-only statistics from the ledger and the
// subscription store. Nothing is persisted or cached.
type AnalyticsService interface {
	SubscriptionStatistics(ctx context.Context) (*resp.SubscriptionStatistics, error)
	PlanPerformance(ctx context.Context) ([]resp.PlanPerformance, error)
	PlanStatistics(ctx context.Context) (*resp.PlanStatistics, error)
	TransactionStatistics(ctx context.Context, period string) (*resp.TransactionStatistics, error)
}

type analyticsService struct {
	repos  repositories.Repositories
	scorer PlanScorer
	clock  utils.Clock
}

func NewAnalyticsService(repos repositories.Repositories, scorer PlanScorer, clock utils.Clock) AnalyticsService {
	return &analyticsService{repos: repos, scorer: scorer, clock: clock}
}

func (a *analyticsService) snapshot(ctx context.Context) ([]dbm.Plan, []dbm.Subscription, error) {
	plans, err := a.repos.Plans.GetAllPlans(ctx)
	if err != nil {
		return nil, nil, utils.DBError(err)
	}
	subs, err := a.repos.Subscriptions.List(ctx, repositories.SubscriptionFilter{})
	if err != nil {
		return nil, nil, utils.DBError(err)
	}
	return plans, subs, nil
}

func (a *analyticsService) SubscriptionStatistics(ctx context.Context) (*resp.SubscriptionStatistics, error) {
	plans, subs, err := a.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := ComputeSubscriptionStatistics(subs, indexPlans(plans), a.clock.Now())
	return &out, nil
}

func (a *analyticsService) PlanPerformance(ctx context.Context) ([]resp.PlanPerformance, error) {
	plans, subs, err := a.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ComputePlanPerformance(plans, subs, a.scorer, a.clock.Now()), nil
}

func (a *analyticsService) PlanStatistics(ctx context.Context) (*resp.PlanStatistics, error) {
	plans, err := a.repos.Plans.GetAllPlans(ctx)
	if err != nil {
		return nil, utils.DBError(err)
	}
	out := ComputePlanStatistics(plans)
	return &out, nil
}

func (a *analyticsService) TransactionStatistics(ctx context.Context, period string) (*resp.TransactionStatistics, error) {
	since, normalized, err := periodStart(a.clock.Now(), period)
	if err != nil {
		return nil, err
	}
	txns, err := a.repos.Transactions.List(ctx, repositories.TransactionFilter{Since: since})
	if err != nil {
		return nil, utils.DBError(err)
	}
	out := ComputeTransactionStatistics(txns, normalized)
	return &out, nil
}

func indexPlans(plans []dbm.Plan) map[uuid.UUID]dbm.Plan {
	out := make(map[uuid.UUID]dbm.Plan, len(plans))
	for _, p := range plans {
		out[p.ID] = p
	}
	return out
}

// ComputeSubscriptionStatistics applies UTC calendar months for growth.
func ComputeSubscriptionStatistics(subs []dbm.Subscription, plans map[uuid.UUID]dbm.Plan, now time.Time) resp.SubscriptionStatistics {
	currentStart := utils.StartOfMonth(now)
	previousStart := currentStart.AddDate(0, -1, 0)
	nextStart := currentStart.AddDate(0, 1, 0)

	var out resp.SubscriptionStatistics
	for _, s := range subs {
		out.Total++
		switch s.Status {
		case dbm.SubStatusActive:
			out.Active++
			out.TotalActiveRevenue += plans[s.PlanID].Price
		case dbm.SubStatusExpired:
			out.Expired++
		case dbm.SubStatusCancelled:
			out.Cancelled++
		}

		switch {
		case s.ActivatedAt >= currentStart.Unix() && s.ActivatedAt < nextStart.Unix():
			out.CurrentMonth++
		case s.ActivatedAt >= previousStart.Unix() && s.ActivatedAt < currentStart.Unix():
			out.PreviousMonth++
		}
	}

	out.MonthlyGrowthPct = utils.GrowthRate(out.PreviousMonth, out.CurrentMonth)
	out.ChurnRatePct = utils.Percent(float64(out.Cancelled), float64(out.Total))
	return out
}

// ComputePlanPerformance reports plans in catalog order.
func ComputePlanPerformance(plans []dbm.Plan, subs []dbm.Subscription, scorer PlanScorer, now time.Time) []resp.PlanPerformance {
	recentStart := now.Add(-trailingWindow).Unix()
	previousStart := now.Add(-2 * trailingWindow).Unix()
	nowUnix := now.Unix()

	type tally struct {
		active, total, cancelledRecently int64
		recent, previous                 int64
	}
	byPlan := make(map[uuid.UUID]*tally, len(plans))
	for _, p := range plans {
		byPlan[p.ID] = &tally{}
	}

	for _, s := range subs {
		t, ok := byPlan[s.PlanID]
		if !ok {
			continue
		}
		t.total++
		if s.Status == dbm.SubStatusActive {
			t.active++
		}
		if s.Status == dbm.SubStatusCancelled && s.CanceledAt != nil && *s.CanceledAt >= recentStart {
			t.cancelledRecently++
		}
		switch {
		case s.ActivatedAt >= recentStart && s.ActivatedAt <= nowUnix:
			t.recent++
		case s.ActivatedAt >= previousStart && s.ActivatedAt < recentStart:
			t.previous++
		}
	}

	out := make([]resp.PlanPerformance, 0, len(plans))
	for _, p := range plans {
		t := byPlan[p.ID]
		out = append(out, resp.PlanPerformance{
			PlanID:            p.ID,
			PlanName:          p.Name,
			PlanType:          string(p.Type),
			Price:             p.Price,
			ActiveSubscribers: t.active,
			TotalSubscribers:  t.total,
			Revenue:           t.active * p.Price,
			ChurnRatePct:      utils.Percent(float64(t.cancelledRecently), float64(t.active)),
			Satisfaction:      scorer.Satisfaction(p, t.active),
			GrowthRatePct:     scorer.Growth(t.previous, t.recent),
		})
	}
	return out
}

func ComputePlanStatistics(plans []dbm.Plan) resp.PlanStatistics {
	var out resp.PlanStatistics
	var sum int64
	for i := range plans {
		p := plans[i]
		out.TotalPlans++
		sum += p.Price
		switch p.Type {
		case dbm.PlanTypePrepaid:
			out.PrepaidPlans++
		case dbm.PlanTypePostpaid:
			out.PostpaidPlans++
		}
		if out.MostExpensive == nil || p.Price > out.MostExpensive.Price {
			out.MostExpensive = &resp.PlanSummary{PlanID: p.ID, Name: p.Name, Price: p.Price}
		}
		if out.MostAffordable == nil || p.Price < out.MostAffordable.Price {
			out.MostAffordable = &resp.PlanSummary{PlanID: p.ID, Name: p.Name, Price: p.Price}
		}
	}
	if out.TotalPlans > 0 {
		out.AveragePrice = utils.Round2(float64(sum) / float64(out.TotalPlans))
	}
	return out
}

func ComputeTransactionStatistics(txns []dbm.Transaction, period string) resp.TransactionStatistics {
	out := resp.TransactionStatistics{
		Period:     period,
		Revenue:    decimal.Zero,
		Refunds:    decimal.Zero,
		NetRevenue: decimal.Zero,
	}
	for _, t := range txns {
		out.Total++
		switch t.Status {
		case dbm.TxnStatusSuccess:
			out.Successful++
			switch t.Type {
			case dbm.TxnTypeRecharge:
				out.Revenue = out.Revenue.Add(t.Amount)
			case dbm.TxnTypeRefund:
				out.Refunds = out.Refunds.Add(t.Amount)
			}
		case dbm.TxnStatusFailed:
			out.Failed++
		}
	}
	out.NetRevenue = out.Revenue.Sub(out.Refunds)
	out.SuccessRatePct = utils.Percent(float64(out.Successful), float64(out.Total))
	return out
}
