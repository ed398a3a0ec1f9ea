package domain

import (
	"context"
	"time"
)

// CategoryCount is one bucket of a distribution, with its share of the
// distribution's total (two-decimal percentage, 0 when the total is 0).
type CategoryCount struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DailyCount is one calendar-date bucket of the trailing trend.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// HourCount is one hour-of-day bucket (0-23) of the hourly histogram.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// RecentRegistration is the reduced projection used in the recent list.
type RecentRegistration struct {
	RegistrationNumber string    `json:"registrationNumber"`
	Name               string    `json:"name"`
	Branch             string    `json:"branch"`
	InterestedEvents   []string  `json:"interestedEvents"`
	RegistrationDate   time.Time `json:"registrationDate"`
}

// StatsOverview is the full aggregate picture over confirmed registrations.
type StatsOverview struct {
	Total                int                  `json:"total"`
	Events               []CategoryCount      `json:"events"`
	Branches             []CategoryCount      `json:"branches"`
	Years                []CategoryCount      `json:"years"`
	DailyTrend           []DailyCount         `json:"dailyTrend"`
	HourlyHistogram      []HourCount          `json:"hourlyHistogram"`
	Recent               []RecentRegistration `json:"recent"`
	BothEventsPercentage float64              `json:"bothEventsPercentage"`
}

// LiveCount is the lightweight polling payload: total plus raw per-event
// counts.
type LiveCount struct {
	Total  int `json:"total"`
	Blitz  int `json:"blitz"`
	Ignite int `json:"ignite"`
	Both   int `json:"both"`
}

// EventStats is the per-event breakdown by branch and year.
type EventStats struct {
	Event    string          `json:"event"`
	Total    int             `json:"total"`
	Branches []CategoryCount `json:"branches"`
	Years    []CategoryCount `json:"years"`
}

// StatsRepository defines the grouping/counting queries over confirmed
// registrations. All methods are read-only.
type StatsRepository interface {
	CountConfirmed(ctx context.Context) (int, error)
	// CountByEvent counts confirmed registrations per enumerated event value.
	CountByEvent(ctx context.Context) (map[string]int, error)
	CountByBranch(ctx context.Context) (map[string]int, error)
	CountByYear(ctx context.Context) (map[string]int, error)
	// CountByBranchForEvent and CountByYearForEvent filter to rows whose
	// event set contains the given value.
	CountByBranchForEvent(ctx context.Context, event string) (map[string]int, error)
	CountByYearForEvent(ctx context.Context, event string) (map[string]int, error)
	DailyCounts(ctx context.Context, since time.Time) (map[string]int, error)
	HourlyCounts(ctx context.Context) (map[int]int, error)
	Recent(ctx context.Context, limit int) ([]*RecentRegistration, error)
}

// StatsService assembles the read-only statistics views.
type StatsService interface {
	Overview(ctx context.Context) (*StatsOverview, error)
	LiveCount(ctx context.Context) (*LiveCount, error)
	// EventStats rejects unrecognized event names with ErrInvalidEvent.
	EventStats(ctx context.Context, eventName string) (*EventStats, error)
}
