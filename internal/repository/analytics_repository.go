package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/innerview/innerview-api/internal/models"
)

// AnalyticsRepository aggregates counts for dashboard overviews.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository constructs an analytics repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// CountInstruments returns total and active instrument counts.
func (r *AnalyticsRepository) CountInstruments(ctx context.Context) (total int, active int, err error) {
	const query = `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE ativo) AS active FROM screening_instruments`
	row := struct {
		Total  int `db:"total"`
		Active int `db:"active"`
	}{}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return 0, 0, fmt.Errorf("count instruments: %w", err)
	}
	return row.Total, row.Active, nil
}

// CountScreeningsByStatus returns screening counts grouped by status.
func (r *AnalyticsRepository) CountScreeningsByStatus(ctx context.Context) (map[models.ScreeningStatus]int, int, error) {
	const query = `SELECT status, COUNT(*) AS count FROM screenings GROUP BY status`
	rows := []struct {
		Status models.ScreeningStatus `db:"status"`
		Count  int                    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, 0, fmt.Errorf("count screenings by status: %w", err)
	}
	byStatus := make(map[models.ScreeningStatus]int, len(rows))
	total := 0
	for _, row := range rows {
		byStatus[row.Status] = row.Count
		total += row.Count
	}
	return byStatus, total, nil
}

// CountPlans returns the number of intervention plans.
func (r *AnalyticsRepository) CountPlans(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM intervention_plans"); err != nil {
		return 0, fmt.Errorf("count plans: %w", err)
	}
	return count, nil
}

// CountEvents returns the number of calendar events.
func (r *AnalyticsRepository) CountEvents(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM calendar_events"); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}
