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

const planColumns = `id, estudante_id, responsavel_id, titulo, descricao, nivel, status, inicio, fim, created_at, updated_at`

const goalColumns = `id, plano_id, titulo, descricao, valor_alvo, valor_atual, prazo, status, created_at, updated_at`

// InterventionRepository persists intervention plans and goals.
type InterventionRepository struct {
	db *sqlx.DB
}

// NewInterventionRepository constructs an intervention repository.
func NewInterventionRepository(db *sqlx.DB) *InterventionRepository {
	return &InterventionRepository{db: db}
}

// ListPlans returns plans matching the filter.
func (r *InterventionRepository) ListPlans(ctx context.Context, filter models.PlanFilter) ([]models.InterventionPlan, int, error) {
	base := "FROM intervention_plans"
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.EstudanteID != "" {
		where = append(where, fmt.Sprintf("estudante_id = $%d", len(args)+1))
		args = append(args, filter.EstudanteID)
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

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY inicio DESC LIMIT %d OFFSET %d",
		planColumns, base, whereClause, size, offset)
	var plans []models.InterventionPlan
	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list plans: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count plans: %w", err)
	}
	return plans, total, nil
}

// GetPlan fetches a plan without goals.
func (r *InterventionRepository) GetPlan(ctx context.Context, id string) (*models.InterventionPlan, error) {
	query := fmt.Sprintf("SELECT %s FROM intervention_plans WHERE id = $1", planColumns)
	var plan models.InterventionPlan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListGoals returns all goals of a plan.
func (r *InterventionRepository) ListGoals(ctx context.Context, planID string) ([]models.InterventionGoal, error) {
	query := fmt.Sprintf("SELECT %s FROM intervention_goals WHERE plano_id = $1 ORDER BY created_at ASC", goalColumns)
	var goals []models.InterventionGoal
	if err := r.db.SelectContext(ctx, &goals, query, planID); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// CreatePlan inserts a plan.
func (r *InterventionRepository) CreatePlan(ctx context.Context, plan *models.InterventionPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now
	const query = `INSERT INTO intervention_plans (id, estudante_id, responsavel_id, titulo, descricao, nivel, status, inicio, fim, created_at, updated_at)
VALUES (:id, :estudante_id, :responsavel_id, :titulo, :descricao, :nivel, :status, :inicio, :fim, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// UpdatePlan modifies a plan.
func (r *InterventionRepository) UpdatePlan(ctx context.Context, plan *models.InterventionPlan) error {
	plan.UpdatedAt = time.Now().UTC()
	const query = `UPDATE intervention_plans SET titulo = :titulo, descricao = :descricao, nivel = :nivel,
status = :status, fim = :fim, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	return nil
}

// DeletePlan removes a plan and its goals atomically.
func (r *InterventionRepository) DeletePlan(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM intervention_goals WHERE plano_id = $1", id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete goals: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM intervention_plans WHERE id = $1", id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete plan: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit plan delete: %w", err)
	}
	return nil
}

// GetGoal fetches one goal.
func (r *InterventionRepository) GetGoal(ctx context.Context, id string) (*models.InterventionGoal, error) {
	query := fmt.Sprintf("SELECT %s FROM intervention_goals WHERE id = $1", goalColumns)
	var goal models.InterventionGoal
	if err := r.db.GetContext(ctx, &goal, query, id); err != nil {
		return nil, err
	}
	return &goal, nil
}

// CreateGoal inserts a goal.
func (r *InterventionRepository) CreateGoal(ctx context.Context, goal *models.InterventionGoal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	goal.UpdatedAt = now
	const query = `INSERT INTO intervention_goals (id, plano_id, titulo, descricao, valor_alvo, valor_atual, prazo, status, created_at, updated_at)
VALUES (:id, :plano_id, :titulo, :descricao, :valor_alvo, :valor_atual, :prazo, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, goal); err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

// UpdateGoal modifies a goal.
func (r *InterventionRepository) UpdateGoal(ctx context.Context, goal *models.InterventionGoal) error {
	goal.UpdatedAt = time.Now().UTC()
	const query = `UPDATE intervention_goals SET titulo = :titulo, descricao = :descricao, valor_alvo = :valor_alvo,
valor_atual = :valor_atual, prazo = :prazo, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, goal); err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return nil
}

// DeleteGoal removes a goal row.
func (r *InterventionRepository) DeleteGoal(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM intervention_goals WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}
