package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/innerview/innerview-api/internal/models"
)

const resultColumns = `id, rastreio_id, indicador_id, valor, nivel_risco, observacoes, created_at, updated_at`

// ResultRepository persists screening results. The (rastreio_id, indicador_id)
// pair is unique; writes go through upserts so repeated registrations never
// produce duplicate rows.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs a result repository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// ListByScreening returns all results of a screening.
func (r *ResultRepository) ListByScreening(ctx context.Context, screeningID string) ([]models.ScreeningResult, error) {
	query := fmt.Sprintf("SELECT %s FROM screening_results WHERE rastreio_id = $1 ORDER BY created_at ASC", resultColumns)
	var results []models.ScreeningResult
	if err := r.db.SelectContext(ctx, &results, query, screeningID); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

// GetByID fetches a single result.
func (r *ResultRepository) GetByID(ctx context.Context, id string) (*models.ScreeningResult, error) {
	query := fmt.Sprintf("SELECT %s FROM screening_results WHERE id = $1", resultColumns)
	var result models.ScreeningResult
	if err := r.db.GetContext(ctx, &result, query, id); err != nil {
		return nil, err
	}
	return &result, nil
}

// Upsert inserts or updates the result for one (rastreio, indicador) pair.
func (r *ResultRepository) Upsert(ctx context.Context, result *models.ScreeningResult) error {
	prepare(result)
	if _, err := r.db.NamedExecContext(ctx, upsertResultQuery, result); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	return nil
}

// BatchUpsert writes every result in a single all-or-nothing transaction.
func (r *ResultRepository) BatchUpsert(ctx context.Context, results []models.ScreeningResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	for i := range results {
		prepare(&results[i])
		if _, err := tx.NamedExecContext(ctx, upsertResultQuery, results[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("batch upsert result: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit result batch: %w", err)
	}
	return nil
}

// Update modifies a stored result.
func (r *ResultRepository) Update(ctx context.Context, result *models.ScreeningResult) error {
	result.UpdatedAt = time.Now().UTC()
	const query = `UPDATE screening_results SET valor = :valor, nivel_risco = :nivel_risco, observacoes = :observacoes,
updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	return nil
}

// Delete removes a result row.
func (r *ResultRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM screening_results WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return nil
}

// ListByIndicator returns all values recorded for an indicator in insertion
// order, for the analytics aggregations.
func (r *ResultRepository) ListByIndicator(ctx context.Context, indicatorID string) ([]models.ScreeningResult, error) {
	query := fmt.Sprintf("SELECT %s FROM screening_results WHERE indicador_id = $1 ORDER BY created_at ASC", resultColumns)
	var results []models.ScreeningResult
	if err := r.db.SelectContext(ctx, &results, query, indicatorID); err != nil {
		return nil, fmt.Errorf("list results by indicator: %w", err)
	}
	return results, nil
}

const upsertResultQuery = `INSERT INTO screening_results (id, rastreio_id, indicador_id, valor, nivel_risco, observacoes, created_at, updated_at)
VALUES (:id, :rastreio_id, :indicador_id, :valor, :nivel_risco, :observacoes, :created_at, :updated_at)
ON CONFLICT (rastreio_id, indicador_id)
DO UPDATE SET valor = EXCLUDED.valor, nivel_risco = EXCLUDED.nivel_risco, observacoes = EXCLUDED.observacoes, updated_at = EXCLUDED.updated_at`

func prepare(result *models.ScreeningResult) {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if result.CreatedAt.IsZero() {
		result.CreatedAt = now
	}
	result.UpdatedAt = now
}
