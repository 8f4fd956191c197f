package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/innerview/innerview-api/internal/models"
)

const screeningColumns = `id, instrumento_id, estudante_id, aplicador_id, status, data_aplicacao, observacoes, created_at, updated_at`

// ScreeningRepository persists instrument applications.
type ScreeningRepository struct {
	db *sqlx.DB
}

// NewScreeningRepository constructs a screening repository.
func NewScreeningRepository(db *sqlx.DB) *ScreeningRepository {
	return &ScreeningRepository{db: db}
}

// List returns screenings matching the filter.
func (r *ScreeningRepository) List(ctx context.Context, filter models.ScreeningFilter) ([]models.Screening, int, error) {
	base := "FROM screenings"
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.EstudanteID != "" {
		where = append(where, fmt.Sprintf("estudante_id = $%d", len(args)+1))
		args = append(args, filter.EstudanteID)
	}
	if filter.InstrumentoID != "" {
		where = append(where, fmt.Sprintf("instrumento_id = $%d", len(args)+1))
		args = append(args, filter.InstrumentoID)
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, string(*filter.Status))
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY data_aplicacao DESC LIMIT %d OFFSET %d",
		screeningColumns, base, whereClause, size, offset)
	var screenings []models.Screening
	if err := r.db.SelectContext(ctx, &screenings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list screenings: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count screenings: %w", err)
	}
	return screenings, total, nil
}

// GetByID fetches a screening.
func (r *ScreeningRepository) GetByID(ctx context.Context, id string) (*models.Screening, error) {
	query := fmt.Sprintf("SELECT %s FROM screenings WHERE id = $1", screeningColumns)
	var screening models.Screening
	if err := r.db.GetContext(ctx, &screening, query, id); err != nil {
		return nil, err
	}
	return &screening, nil
}

// Create inserts a screening.
func (r *ScreeningRepository) Create(ctx context.Context, screening *models.Screening) error {
	if screening.ID == "" {
		screening.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if screening.CreatedAt.IsZero() {
		screening.CreatedAt = now
	}
	screening.UpdatedAt = now
	const query = `INSERT INTO screenings (id, instrumento_id, estudante_id, aplicador_id, status, data_aplicacao, observacoes, created_at, updated_at)
VALUES (:id, :instrumento_id, :estudante_id, :aplicador_id, :status, :data_aplicacao, :observacoes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, screening); err != nil {
		return fmt.Errorf("create screening: %w", err)
	}
	return nil
}

// Update modifies a screening.
func (r *ScreeningRepository) Update(ctx context.Context, screening *models.Screening) error {
	screening.UpdatedAt = time.Now().UTC()
	const query = `UPDATE screenings SET status = :status, data_aplicacao = :data_aplicacao, observacoes = :observacoes,
updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, screening); err != nil {
		return fmt.Errorf("update screening: %w", err)
	}
	return nil
}

// UpdateStatus transitions the screening lifecycle state.
func (r *ScreeningRepository) UpdateStatus(ctx context.Context, id string, status models.ScreeningStatus) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE screenings SET status = $1, updated_at = $2 WHERE id = $3", string(status), time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update screening status: %w", err)
	}
	return nil
}

// Delete removes a screening row.
func (r *ScreeningRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM screenings WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete screening: %w", err)
	}
	return nil
}

// CountResults returns how many results are stored for a screening.
func (r *ScreeningRepository) CountResults(ctx context.Context, screeningID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM screening_results WHERE rastreio_id = $1", screeningID); err != nil {
		return 0, fmt.Errorf("count screening results: %w", err)
	}
	return count, nil
}
