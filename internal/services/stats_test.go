package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"blitzweek/internal/domain"
)

type mockStatsRepository struct {
	total    int
	events   map[string]int
	branches map[string]int
	years    map[string]int
	daily    map[string]int
	hourly   map[int]int
	recent   []*domain.RecentRegistration

	branchesForEvent map[string]int
	yearsForEvent    map[string]int
}

func (m *mockStatsRepository) CountConfirmed(ctx context.Context) (int, error) { return m.total, nil }
func (m *mockStatsRepository) CountByEvent(ctx context.Context) (map[string]int, error) {
	return m.events, nil
}
func (m *mockStatsRepository) CountByBranch(ctx context.Context) (map[string]int, error) {
	return m.branches, nil
}
func (m *mockStatsRepository) CountByYear(ctx context.Context) (map[string]int, error) {
	return m.years, nil
}
func (m *mockStatsRepository) CountByBranchForEvent(ctx context.Context, event string) (map[string]int, error) {
	return m.branchesForEvent, nil
}
func (m *mockStatsRepository) CountByYearForEvent(ctx context.Context, event string) (map[string]int, error) {
	return m.yearsForEvent, nil
}
func (m *mockStatsRepository) DailyCounts(ctx context.Context, since time.Time) (map[string]int, error) {
	return m.daily, nil
}
func (m *mockStatsRepository) HourlyCounts(ctx context.Context) (map[int]int, error) {
	return m.hourly, nil
}
func (m *mockStatsRepository) Recent(ctx context.Context, limit int) ([]*domain.RecentRegistration, error) {
	return m.recent, nil
}

func newTestStatsService(repo domain.StatsRepository) *statsService {
	return &statsService{
		repo: repo,
		now:  func() time.Time { return time.Date(2026, 8, 31, 15, 30, 0, 0, time.UTC) },
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name  string
		count int
		total int
		want  float64
	}{
		{"zero total is zero", 5, 0, 0},
		{"half", 1, 2, 50},
		{"third rounds to two decimals", 1, 3, 33.33},
		{"two thirds", 2, 3, 66.67},
		{"full", 7, 7, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, percentage(tt.count, tt.total))
		})
	}
}

func TestOverview(t *testing.T) {
	repo := &mockStatsRepository{
		total: 4,
		events: map[string]int{
			domain.EventBlitz:  2,
			domain.EventIgnite: 1,
			domain.EventBoth:   1,
		},
		branches: map[string]int{
			"Computer Science and Engineering": 3,
			"Electrical Engineering":           1,
		},
		years: map[string]int{
			"1st Year": 1,
			"3rd Year": 3,
		},
		daily:  map[string]int{"2026-08-31": 2, "2026-08-29": 2},
		hourly: map[int]int{10: 3, 23: 1},
		recent: []*domain.RecentRegistration{
			{RegistrationNumber: "BW20260004", Name: "Dana"},
		},
	}
	svc := newTestStatsService(repo)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, overview.Total)

	// Branch percentages sum to ~100 across the distribution.
	var branchSum float64
	for _, b := range overview.Branches {
		branchSum += b.Percentage
	}
	require.InDelta(t, 100, branchSum, 0.1)

	var yearSum float64
	for _, y := range overview.Years {
		yearSum += y.Percentage
	}
	require.InDelta(t, 100, yearSum, 0.1)

	// Trend covers exactly the trailing 7 calendar dates, oldest first.
	require.Len(t, overview.DailyTrend, 7)
	require.Equal(t, "2026-08-25", overview.DailyTrend[0].Date)
	require.Equal(t, "2026-08-31", overview.DailyTrend[6].Date)
	require.Equal(t, 2, overview.DailyTrend[6].Count)
	require.Equal(t, 0, overview.DailyTrend[5].Count)

	// Histogram always has all 24 hours.
	require.Len(t, overview.HourlyHistogram, 24)
	require.Equal(t, 3, overview.HourlyHistogram[10].Count)
	require.Equal(t, 1, overview.HourlyHistogram[23].Count)
	require.Equal(t, 0, overview.HourlyHistogram[0].Count)

	require.Equal(t, 25.0, overview.BothEventsPercentage)
	require.Len(t, overview.Recent, 1)
}

func TestOverview_EmptyStoreIsZeroSafe(t *testing.T) {
	repo := &mockStatsRepository{}
	svc := newTestStatsService(repo)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, overview.Total)
	for _, e := range overview.Events {
		require.Equal(t, float64(0), e.Percentage)
	}
	require.Equal(t, float64(0), overview.BothEventsPercentage)
	require.Len(t, overview.DailyTrend, 7)
	require.Len(t, overview.HourlyHistogram, 24)
	require.Empty(t, overview.Recent)
}

func TestLiveCount(t *testing.T) {
	repo := &mockStatsRepository{
		total: 10,
		events: map[string]int{
			domain.EventBlitz:  5,
			domain.EventIgnite: 3,
			domain.EventBoth:   2,
		},
	}
	svc := newTestStatsService(repo)

	lc, err := svc.LiveCount(context.Background())
	require.NoError(t, err)
	require.Equal(t, &domain.LiveCount{Total: 10, Blitz: 5, Ignite: 3, Both: 2}, lc)
}

func TestEventStats(t *testing.T) {
	repo := &mockStatsRepository{
		branchesForEvent: map[string]int{
			"Computer Science and Engineering": 2,
			"Mechanical Engineering":           2,
		},
		yearsForEvent: map[string]int{"2nd Year": 4},
	}
	svc := newTestStatsService(repo)

	stats, err := svc.EventStats(context.Background(), domain.EventBlitz)
	require.NoError(t, err)
	require.Equal(t, domain.EventBlitz, stats.Event)
	require.Equal(t, 4, stats.Total)

	_, err = svc.EventStats(context.Background(), "Hackathon")
	require.ErrorIs(t, err, domain.ErrInvalidEvent)
}
