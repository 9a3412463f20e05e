package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbm "telecore/internal/models/db_models"
	"telecore/pkg/utils"
)

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, time.March, 15, 13, 30, 0, 0, time.UTC)

	tests := []struct {
		period   string
		want     *time.Time
		wantName string
	}{
		{"", nil, PeriodAll},
		{"all", nil, PeriodAll},
		{"TODAY", ptrTime(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)), PeriodToday},
		{"week", ptrTime(now.AddDate(0, 0, -7)), PeriodWeek},
		{"month", ptrTime(now.AddDate(0, -1, 0)), PeriodMonth},
		{"year", ptrTime(now.AddDate(-1, 0, 0)), PeriodYear},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got, name, err := periodStart(now, tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want.Unix(), *got)
		})
	}

	_, _, err := periodStart(now, "fortnight")
	assert.ErrorIs(t, err, utils.ErrInvalidPeriod)
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestComputeSubscriptionStatistics(t *testing.T) {
	now := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	cheap := dbm.Plan{BaseModel: dbm.BaseModel{ID: uuid.New()}, Price: 99}
	pricey := dbm.Plan{BaseModel: dbm.BaseModel{ID: uuid.New()}, Price: 499}
	plans := indexPlans([]dbm.Plan{cheap, pricey})

	march := time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC).Unix()
	feb := time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC).Unix()
	subs := []dbm.Subscription{
		{PlanID: cheap.ID, Status: dbm.SubStatusActive, ActivatedAt: march},
		{PlanID: pricey.ID, Status: dbm.SubStatusActive, ActivatedAt: march},
		{PlanID: pricey.ID, Status: dbm.SubStatusExpired, ActivatedAt: feb},
		{PlanID: cheap.ID, Status: dbm.SubStatusCancelled, ActivatedAt: feb},
	}

	out := ComputeSubscriptionStatistics(subs, plans, now)
	assert.EqualValues(t, 4, out.Total)
	assert.EqualValues(t, 2, out.Active)
	assert.EqualValues(t, 1, out.Expired)
	assert.EqualValues(t, 1, out.Cancelled)
	assert.EqualValues(t, 598, out.TotalActiveRevenue)
	assert.EqualValues(t, 2, out.CurrentMonth)
	assert.EqualValues(t, 2, out.PreviousMonth)
	assert.Equal(t, 0.0, out.MonthlyGrowthPct)
	assert.Equal(t, 25.0, out.ChurnRatePct)
}

func TestComputePlanPerformance(t *testing.T) {
	now := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	plan := dbm.Plan{BaseModel: dbm.BaseModel{ID: uuid.New()}, Name: "Max", Type: dbm.PlanTypePrepaid, Price: 200, DataAllowance: "100GB", CallMinutes: 2000}
	idle := dbm.Plan{BaseModel: dbm.BaseModel{ID: uuid.New()}, Name: "Idle", Type: dbm.PlanTypePostpaid, Price: 50}

	recent := now.AddDate(0, 0, -5).Unix()
	older := now.AddDate(0, 0, -45).Unix()
	cancelledAt := now.AddDate(0, 0, -2).Unix()
	staleCancel := now.AddDate(0, 0, -40).Unix()
	subs := []dbm.Subscription{
		{PlanID: plan.ID, Status: dbm.SubStatusActive, ActivatedAt: recent},
		{PlanID: plan.ID, Status: dbm.SubStatusActive, ActivatedAt: recent},
		{PlanID: plan.ID, Status: dbm.SubStatusCancelled, ActivatedAt: older, CanceledAt: &cancelledAt},
		{PlanID: plan.ID, Status: dbm.SubStatusCancelled, ActivatedAt: older, CanceledAt: &staleCancel},
		{PlanID: uuid.New(), Status: dbm.SubStatusActive, ActivatedAt: recent},
	}

	out := ComputePlanPerformance([]dbm.Plan{plan, idle}, subs, NewHeuristicScorer(), now)
	require.Len(t, out, 2)

	got := out[0]
	assert.Equal(t, plan.ID, got.PlanID)
	assert.EqualValues(t, 2, got.ActiveSubscribers)
	assert.EqualValues(t, 4, got.TotalSubscribers)
	assert.EqualValues(t, 400, got.Revenue)
	assert.Equal(t, 50.0, got.ChurnRatePct)
	assert.Equal(t, 0.0, got.GrowthRatePct) // 2 previous, 2 recent
	assert.Equal(t, 4.8, got.Satisfaction)

	empty := out[1]
	assert.Zero(t, empty.ActiveSubscribers)
	assert.Zero(t, empty.ChurnRatePct)
	assert.Zero(t, empty.GrowthRatePct)
	assert.Equal(t, 3.0, empty.Satisfaction)
}

func TestComputePlanStatistics(t *testing.T) {
	plans := []dbm.Plan{
		{BaseModel: dbm.BaseModel{ID: uuid.New()}, Name: "A", Type: dbm.PlanTypePrepaid, Price: 100},
		{BaseModel: dbm.BaseModel{ID: uuid.New()}, Name: "B", Type: dbm.PlanTypePostpaid, Price: 300},
		{BaseModel: dbm.BaseModel{ID: uuid.New()}, Name: "C", Type: dbm.PlanTypePrepaid, Price: 201},
	}

	out := ComputePlanStatistics(plans)
	assert.EqualValues(t, 3, out.TotalPlans)
	assert.EqualValues(t, 2, out.PrepaidPlans)
	assert.EqualValues(t, 1, out.PostpaidPlans)
	assert.Equal(t, 200.33, out.AveragePrice)
	require.NotNil(t, out.MostExpensive)
	require.NotNil(t, out.MostAffordable)
	assert.Equal(t, "B", out.MostExpensive.Name)
	assert.Equal(t, "A", out.MostAffordable.Name)

	none := ComputePlanStatistics(nil)
	assert.Nil(t, none.MostExpensive)
	assert.Zero(t, none.AveragePrice)
}

func TestComputeTransactionStatistics(t *testing.T) {
	d := decimal.RequireFromString
	txns := []dbm.Transaction{
		{Type: dbm.TxnTypeRecharge, Status: dbm.TxnStatusSuccess, Amount: d("299")},
		{Type: dbm.TxnTypeRecharge, Status: dbm.TxnStatusSuccess, Amount: d("100.25")},
		{Type: dbm.TxnTypeRefund, Status: dbm.TxnStatusSuccess, Amount: d("50")},
		{Type: dbm.TxnTypeSubscription, Status: dbm.TxnStatusSuccess, Amount: d("599")},
		{Type: dbm.TxnTypeRecharge, Status: dbm.TxnStatusFailed, Amount: d("10")},
	}

	out := ComputeTransactionStatistics(txns, PeriodMonth)
	assert.Equal(t, PeriodMonth, out.Period)
	assert.EqualValues(t, 5, out.Total)
	assert.EqualValues(t, 4, out.Successful)
	assert.EqualValues(t, 1, out.Failed)
	assert.Equal(t, "399.25", out.Revenue.StringFixed(2))
	assert.Equal(t, "50.00", out.Refunds.StringFixed(2))
	assert.Equal(t, "349.25", out.NetRevenue.StringFixed(2))
	assert.Equal(t, 80.0, out.SuccessRatePct)

	empty := ComputeTransactionStatistics(nil, PeriodAll)
	assert.Zero(t, empty.SuccessRatePct)
	assert.True(t, empty.NetRevenue.IsZero())
}

func TestAnalyticsService_TransactionStatisticsByPeriod(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.store.Repositories(), NewHeuristicScorer(), f.clock)
	ctx := context.Background()

	f.store.SeedTransaction(dbm.Transaction{Type: dbm.TxnTypeRecharge, Status: dbm.TxnStatusSuccess, Amount: decimal.NewFromInt(10), TransactedAt: day0.Unix()})
	f.store.SeedTransaction(dbm.Transaction{Type: dbm.TxnTypeRecharge, Status: dbm.TxnStatusSuccess, Amount: decimal.NewFromInt(20), TransactedAt: day0.AddDate(0, 0, -3).Unix()})
	f.store.SeedTransaction(dbm.Transaction{Type: dbm.TxnTypeRecharge, Status: dbm.TxnStatusSuccess, Amount: decimal.NewFromInt(40), TransactedAt: day0.AddDate(0, -2, 0).Unix()})

	today, err := svc.TransactionStatistics(ctx, "today")
	require.NoError(t, err)
	assert.EqualValues(t, 1, today.Total)

	week, err := svc.TransactionStatistics(ctx, "week")
	require.NoError(t, err)
	assert.EqualValues(t, 2, week.Total)

	all, err := svc.TransactionStatistics(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)
	assert.Equal(t, "70", all.Revenue.String())

	_, err = svc.TransactionStatistics(ctx, "decade")
	assert.ErrorIs(t, err, utils.ErrInvalidPeriod)
}
