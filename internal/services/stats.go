package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"blitzweek/internal/domain"
)

const (
	recentLimit = 10
	trendDays   = 7
	hoursInDay  = 24
)

// eventOrder fixes the presentation order of the event distribution.
var eventOrder = []string{domain.EventBlitz, domain.EventIgnite, domain.EventBoth}

type statsService struct {
	repo domain.StatsRepository
	now  func() time.Time
}

// NewStatsService creates a StatsService over the given repository.
func NewStatsService(repo domain.StatsRepository) domain.StatsService {
	return &statsService{
		repo: repo,
		now:  time.Now,
	}
}

// percentage returns count/total as a two-decimal percentage, 0 when total
// is zero.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*10000) / 100
}

// distribution builds category counts in the given label order, including
// zero-count categories so every enumerated value always appears.
func distribution(labels []string, counts map[string]int, total int) []domain.CategoryCount {
	out := make([]domain.CategoryCount, 0, len(labels))
	for _, label := range labels {
		c := counts[label]
		out = append(out, domain.CategoryCount{
			Label:      label,
			Count:      c,
			Percentage: percentage(c, total),
		})
	}
	return out
}

func (s *statsService) Overview(ctx context.Context) (*domain.StatsOverview, error) {
	total, err := s.repo.CountConfirmed(ctx)
	if err != nil {
		return nil, fmt.Errorf("count confirmed: %w", err)
	}
	eventCounts, err := s.repo.CountByEvent(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by event: %w", err)
	}
	branchCounts, err := s.repo.CountByBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by branch: %w", err)
	}
	yearCounts, err := s.repo.CountByYear(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by year: %w", err)
	}

	today := s.now().UTC()
	since := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -(trendDays - 1))
	daily, err := s.repo.DailyCounts(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	trend := make([]domain.DailyCount, 0, trendDays)
	for i := 0; i < trendDays; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		trend = append(trend, domain.DailyCount{Date: day, Count: daily[day]})
	}

	hourly, err := s.repo.HourlyCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("hourly counts: %w", err)
	}
	histogram := make([]domain.HourCount, hoursInDay)
	for h := 0; h < hoursInDay; h++ {
		histogram[h] = domain.HourCount{Hour: h, Count: hourly[h]}
	}

	recent, err := s.repo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent registrations: %w", err)
	}
	if recent == nil {
		recent = []*domain.RecentRegistration{}
	}
	recentVals := make([]domain.RecentRegistration, 0, len(recent))
	for _, r := range recent {
		recentVals = append(recentVals, *r)
	}

	return &domain.StatsOverview{
		Total:                total,
		Events:               distribution(eventOrder, eventCounts, total),
		Branches:             distribution(Branches, branchCounts, total),
		Years:                distribution(Years, yearCounts, total),
		DailyTrend:           trend,
		HourlyHistogram:      histogram,
		Recent:               recentVals,
		BothEventsPercentage: percentage(eventCounts[domain.EventBoth], total),
	}, nil
}

func (s *statsService) LiveCount(ctx context.Context) (*domain.LiveCount, error) {
	total, err := s.repo.CountConfirmed(ctx)
	if err != nil {
		return nil, fmt.Errorf("count confirmed: %w", err)
	}
	eventCounts, err := s.repo.CountByEvent(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by event: %w", err)
	}
	return &domain.LiveCount{
		Total:  total,
		Blitz:  eventCounts[domain.EventBlitz],
		Ignite: eventCounts[domain.EventIgnite],
		Both:   eventCounts[domain.EventBoth],
	}, nil
}

func (s *statsService) EventStats(ctx context.Context, eventName string) (*domain.EventStats, error) {
	if !domain.ValidEvent(eventName) {
		return nil, domain.ErrInvalidEvent
	}
	branchCounts, err := s.repo.CountByBranchForEvent(ctx, eventName)
	if err != nil {
		return nil, fmt.Errorf("count by branch for event: %w", err)
	}
	yearCounts, err := s.repo.CountByYearForEvent(ctx, eventName)
	if err != nil {
		return nil, fmt.Errorf("count by year for event: %w", err)
	}
	total := 0
	for _, c := range branchCounts {
		total += c
	}
	return &domain.EventStats{
		Event:    eventName,
		Total:    total,
		Branches: distribution(Branches, branchCounts, total),
		Years:    distribution(Years, yearCounts, total),
	}, nil
}
