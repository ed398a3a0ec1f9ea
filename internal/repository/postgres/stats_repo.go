package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"blitzweek/internal/domain"
)

type statsRepository struct {
	DB *sql.DB
}

func NewStatsRepository(db *sql.DB) domain.StatsRepository {
	return &statsRepository{
		DB: db,
	}
}

func (r *statsRepository) CountConfirmed(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations WHERE status = 'confirmed'`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *statsRepository) CountByEvent(ctx context.Context) (map[string]int, error) {
	// A row counts once per event value in its set.
	query := `
		SELECT e, COUNT(*)
		FROM registrations, unnest(interested_events) AS e
		WHERE status = 'confirmed'
		GROUP BY e
	`
	return r.countByLabel(ctx, query)
}

func (r *statsRepository) CountByBranch(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT branch, COUNT(*)
		FROM registrations
		WHERE status = 'confirmed'
		GROUP BY branch
	`
	return r.countByLabel(ctx, query)
}

func (r *statsRepository) CountByYear(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT year, COUNT(*)
		FROM registrations
		WHERE status = 'confirmed'
		GROUP BY year
	`
	return r.countByLabel(ctx, query)
}

func (r *statsRepository) CountByBranchForEvent(ctx context.Context, event string) (map[string]int, error) {
	query := `
		SELECT branch, COUNT(*)
		FROM registrations
		WHERE status = 'confirmed' AND $1 = ANY(interested_events)
		GROUP BY branch
	`
	return r.countByLabel(ctx, query, event)
}

func (r *statsRepository) CountByYearForEvent(ctx context.Context, event string) (map[string]int, error) {
	query := `
		SELECT year, COUNT(*)
		FROM registrations
		WHERE status = 'confirmed' AND $1 = ANY(interested_events)
		GROUP BY year
	`
	return r.countByLabel(ctx, query, event)
}

func (r *statsRepository) countByLabel(ctx context.Context, query string, args ...any) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, err
		}
		counts[label] = count
	}
	return counts, rows.Err()
}

func (r *statsRepository) DailyCounts(ctx context.Context, since time.Time) (map[string]int, error) {
	query := `
		SELECT to_char(registration_date AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
		FROM registrations
		WHERE status = 'confirmed' AND registration_date >= $1
		GROUP BY day
	`
	return r.countByLabel(ctx, query, since)
}

func (r *statsRepository) HourlyCounts(ctx context.Context) (map[int]int, error) {
	query := `
		SELECT EXTRACT(HOUR FROM registration_date AT TIME ZONE 'UTC')::int AS hour, COUNT(*)
		FROM registrations
		WHERE status = 'confirmed'
		GROUP BY hour
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var hour, count int
		if err := rows.Scan(&hour, &count); err != nil {
			return nil, err
		}
		counts[hour] = count
	}
	return counts, rows.Err()
}

func (r *statsRepository) Recent(ctx context.Context, limit int) ([]*domain.RecentRegistration, error) {
	query := `
		SELECT registration_number, name, branch, interested_events, registration_date
		FROM registrations
		WHERE status = 'confirmed'
		ORDER BY registration_date DESC
		LIMIT $1
	`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recent := make([]*domain.RecentRegistration, 0, limit)
	for rows.Next() {
		rec := &domain.RecentRegistration{}
		if err := rows.Scan(&rec.RegistrationNumber, &rec.Name, &rec.Branch, pq.Array(&rec.InterestedEvents), &rec.RegistrationDate); err != nil {
			return nil, err
		}
		recent = append(recent, rec)
	}
	return recent, rows.Err()
}
