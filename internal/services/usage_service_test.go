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

func dataRecords(customer uuid.UUID, start time.Time, values ...int64) []dbm.UsageRecord {
	out := make([]dbm.UsageRecord, 0, len(values))
	for i, v := range values {
		out = append(out, dbm.UsageRecord{
			CustomerID: customer,
			DataUsed:   v,
			RecordedAt: start.AddDate(0, 0, i).Unix(),
		})
	}
	return out
}

func TestRankHeavyUsers(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	records := []dbm.UsageRecord{
		{CustomerID: a, DataUsed: 60},
		{CustomerID: b, DataUsed: 50},
		{CustomerID: c, DataUsed: 150},
		{CustomerID: a, DataUsed: 40},
	}

	got := RankHeavyUsers(records, dbm.UsageTypeData, 2)
	require.Len(t, got, 2)
	assert.Equal(t, c, got[0].CustomerID)
	assert.EqualValues(t, 150, got[0].Total)
	assert.Equal(t, a, got[1].CustomerID)
	assert.EqualValues(t, 100, got[1].Total)

	assert.Len(t, RankHeavyUsers(records, dbm.UsageTypeData, 10), 3)
	assert.Empty(t, RankHeavyUsers(nil, dbm.UsageTypeSms, 3))
}

func TestDetectTrend(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	id := uuid.New()

	tests := []struct {
		name   string
		values []int64
		want   string
	}{
		{"too few", []int64{5}, ""},
		{"increasing", []int64{1, 1, 1, 1, 1, 1, 1, 9, 9, 9, 9, 9, 9, 9}, TrendIncreasing},
		{"decreasing", []int64{9, 9, 9, 9, 9, 9, 9, 1, 1, 1, 1, 1, 1, 1}, TrendDecreasing},
		{"stable", []int64{4, 4, 4, 4, 4, 4, 4, 4}, TrendStable},
		{"short increasing", []int64{1, 3}, TrendStable},
		{"overlapping windows", []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, TrendIncreasing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectTrend(dataRecords(id, start, tt.values...)))
		})
	}
}

func TestDetectTrend_SortsByDate(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	records := dataRecords(uuid.New(), start, 1, 1, 1, 1, 1, 1, 1, 9, 9, 9, 9, 9, 9, 9)
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	assert.Equal(t, TrendIncreasing, DetectTrend(records))
}

func TestSummarizeMonth(t *testing.T) {
	id := uuid.New()
	feb := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	records := []dbm.UsageRecord{
		{CustomerID: id, DataUsed: 1000, CallsUsed: 30, SmsUsed: 5},
		{CustomerID: id, DataUsed: 400, CallsUsed: 10, SmsUsed: 1},
	}

	out := SummarizeMonth(id, feb, records)
	assert.Equal(t, 2025, out.Year)
	assert.Equal(t, 2, out.Month)
	assert.Equal(t, 2, out.Records)
	assert.EqualValues(t, 1400, out.TotalData)
	assert.EqualValues(t, 40, out.TotalCalls)
	assert.EqualValues(t, 6, out.TotalSms)
	assert.Equal(t, 50.0, out.AverageDailyData) // 1400 / 28 days
}

func TestComputeUsageStatistics(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	out := ComputeUsageStatistics([]dbm.UsageRecord{
		{CustomerID: a, DataUsed: 100, CallsUsed: 10, SmsUsed: 1},
		{CustomerID: a, DataUsed: 50},
		{CustomerID: b, DataUsed: 150, CallsUsed: 5},
	}, PeriodWeek)

	assert.Equal(t, PeriodWeek, out.Period)
	assert.Equal(t, 3, out.Records)
	assert.Equal(t, 2, out.UniqueUsers)
	assert.Equal(t, 150.0, out.AvgDataPerUser)
	assert.Equal(t, 7.5, out.AvgCallsPerUser)
	assert.Equal(t, 0.5, out.AvgSmsPerUser)

	empty := ComputeUsageStatistics(nil, PeriodAll)
	assert.Zero(t, empty.UniqueUsers)
	assert.Zero(t, empty.AvgDataPerUser)
}

func TestComputeUsagePatterns(t *testing.T) {
	id := uuid.New()
	start := time.Date(2025, time.January, 1, 15, 0, 0, 0, time.UTC)
	records := dataRecords(id, start, 10, 80, 30)

	out := ComputeUsagePatterns(id, records)
	assert.Equal(t, 3, out.Records)
	assert.Equal(t, 40.0, out.AvgDailyData)
	require.NotNil(t, out.PeakDataDay)
	assert.Equal(t, time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC), *out.PeakDataDay)
	assert.EqualValues(t, 80, out.PeakDataUsage)
	// Three records fall in both windows.
	assert.Equal(t, TrendStable, out.DataUsageTrend)

	none := ComputeUsagePatterns(id, nil)
	assert.Nil(t, none.PeakDataDay)
	assert.Empty(t, none.DataUsageTrend)
}

func TestComputeQuota(t *testing.T) {
	sub := dbm.Subscription{BaseModel: dbm.BaseModel{ID: uuid.New()}}
	records := []dbm.UsageRecord{
		{DataUsed: 1000, CallsUsed: 60, SmsUsed: 10},
		{DataUsed: 500, CallsUsed: 80, SmsUsed: 10},
	}

	t.Run("gigabyte allowance", func(t *testing.T) {
		plan := dbm.Plan{DataAllowance: "1.5GB", CallMinutes: 100, SmsQuota: 50}
		out := ComputeQuota(sub, plan, records)
		require.NotNil(t, out.DataRemainingMB)
		assert.EqualValues(t, 36, *out.DataRemainingMB) // 1536 - 1500
		assert.EqualValues(t, 0, out.CallsRemaining)     // 140 used of 100
		assert.EqualValues(t, 30, out.SmsRemaining)
	})

	t.Run("unlimited data", func(t *testing.T) {
		plan := dbm.Plan{DataAllowance: "Unlimited", CallMinutes: 1000}
		out := ComputeQuota(sub, plan, records)
		assert.Nil(t, out.DataRemainingMB)
		assert.EqualValues(t, 1500, out.DataUsedMB)
		assert.EqualValues(t, 860, out.CallsRemaining)
	})
}

func TestUsageService(t *testing.T) {
	f := newFixture(t)
	svc := NewUsageService(f.store.Repositories(), f.clock)
	ctx := context.Background()

	a := f.customer("alice")
	b := f.customer("bob")
	c := f.customer("carol")
	for _, u := range []struct {
		who  dbm.Account
		data int64
	}{{a, 100}, {b, 50}, {c, 150}} {
		f.store.SeedUsage(dbm.UsageRecord{CustomerID: u.who.ID, DataUsed: u.data, RecordedAt: day0.AddDate(0, 0, -1).Unix()})
	}

	t.Run("heavy users", func(t *testing.T) {
		got, err := svc.HeavyUsers(ctx, "data", 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, c.ID, got[0].CustomerID)
		assert.Equal(t, "carol", got[0].Name)
		assert.Equal(t, a.ID, got[1].CustomerID)
		assert.Equal(t, "alice", got[1].Name)
	})

	t.Run("heavy users input validation", func(t *testing.T) {
		_, err := svc.HeavyUsers(ctx, "video", 2)
		assert.ErrorIs(t, err, utils.ErrInvalidUsageType)
		_, err = svc.HeavyUsers(ctx, "data", 0)
		assert.ErrorIs(t, err, utils.ErrInvalidLimit)
	})

	t.Run("statistics", func(t *testing.T) {
		out, err := svc.UsageStatistics(ctx, "today")
		require.NoError(t, err)
		assert.Zero(t, out.Records)

		out, err = svc.UsageStatistics(ctx, "week")
		require.NoError(t, err)
		assert.Equal(t, 3, out.Records)
		assert.Equal(t, 3, out.UniqueUsers)
	})

	t.Run("quota", func(t *testing.T) {
		plan := f.plan(299, 30)
		created, err := f.subs.Subscribe(ctx, a.ID, plan.ID, "CARD", decimal.NewFromInt(299))
		require.NoError(t, err)
		f.store.SeedUsage(dbm.UsageRecord{
			CustomerID:     a.ID,
			SubscriptionID: created.Subscription.ID,
			DataUsed:       48,
			CallsUsed:      20,
			RecordedAt:     day0.Unix(),
		})

		quota, err := svc.QuotaRemaining(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, quota, 1)
		require.NotNil(t, quota[0].DataRemainingMB)
		assert.EqualValues(t, 2000, *quota[0].DataRemainingMB) // 2GB plan
		assert.EqualValues(t, 80, quota[0].CallsRemaining)

		bySub, err := svc.ListBySubscription(ctx, created.Subscription.ID)
		require.NoError(t, err)
		assert.Len(t, bySub, 1)
	})

	t.Run("monthly summary", func(t *testing.T) {
		feb, err := svc.MonthlySummary(ctx, b.ID, 2025, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, feb.Records)
		assert.EqualValues(t, 50, feb.TotalData)

		_, err = svc.MonthlySummary(ctx, b.ID, 2025, 0)
		require.NoError(t, err)
	})
}
