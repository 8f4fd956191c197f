package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/innerview/innerview-api/internal/models"
)

const instrumentColumns = `id, nome, descricao, categoria, faixa_etaria, tempo_aplicacao, instrucoes, ativo, created_at, updated_at`

const indicatorColumns = `id, instrumento_id, nome, descricao, tipo, valor_minimo, valor_maximo, ponto_corte, created_at, updated_at`

// InstrumentRepository persists screening instruments and their indicators.
type InstrumentRepository struct {
	db *sqlx.DB
}

// NewInstrumentRepository constructs an instrument repository.
func NewInstrumentRepository(db *sqlx.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

// List returns instruments ordered by nome, optionally including inactive ones.
func (r *InstrumentRepository) List(ctx context.Context, includeInactive bool) ([]models.ScreeningInstrument, error) {
	query := fmt.Sprintf("SELECT %s FROM screening_instruments", instrumentColumns)
	if !includeInactive {
		query += " WHERE ativo = true"
	}
	query += " ORDER BY nome ASC"
	var instruments []models.ScreeningInstrument
	if err := r.db.SelectContext(ctx, &instruments, query); err != nil {
		return nil, fmt.Errorf("list instruments: %w", err)
	}
	return instruments, nil
}

// GetByID fetches an instrument without indicators.
func (r *InstrumentRepository) GetByID(ctx context.Context, id string) (*models.ScreeningInstrument, error) {
	query := fmt.Sprintf("SELECT %s FROM screening_instruments WHERE id = $1", instrumentColumns)
	var instrument models.ScreeningInstrument
	if err := r.db.GetContext(ctx, &instrument, query, id); err != nil {
		return nil, err
	}
	return &instrument, nil
}

// ListIndicators returns all indicators of an instrument ordered by nome.
func (r *InstrumentRepository) ListIndicators(ctx context.Context, instrumentID string) ([]models.ScreeningIndicator, error) {
	query := fmt.Sprintf("SELECT %s FROM screening_indicators WHERE instrumento_id = $1 ORDER BY nome ASC", indicatorColumns)
	var indicators []models.ScreeningIndicator
	if err := r.db.SelectContext(ctx, &indicators, query, instrumentID); err != nil {
		return nil, fmt.Errorf("list indicators: %w", err)
	}
	return indicators, nil
}

// ListIndicatorsByInstruments loads indicators for several instruments at once.
func (r *InstrumentRepository) ListIndicatorsByInstruments(ctx context.Context, instrumentIDs []string) (map[string][]models.ScreeningIndicator, error) {
	grouped := make(map[string][]models.ScreeningIndicator, len(instrumentIDs))
	if len(instrumentIDs) == 0 {
		return grouped, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM screening_indicators WHERE instrumento_id IN (?) ORDER BY nome ASC", indicatorColumns), instrumentIDs)
	if err != nil {
		return nil, fmt.Errorf("build indicators-in query: %w", err)
	}
	query = r.db.Rebind(query)
	var indicators []models.ScreeningIndicator
	if err := r.db.SelectContext(ctx, &indicators, query, args...); err != nil {
		return nil, fmt.Errorf("list indicators by instruments: %w", err)
	}
	for _, indicator := range indicators {
		grouped[indicator.InstrumentoID] = append(grouped[indicator.InstrumentoID], indicator)
	}
	return grouped, nil
}

// GetIndicator fetches one indicator.
func (r *InstrumentRepository) GetIndicator(ctx context.Context, id string) (*models.ScreeningIndicator, error) {
	query := fmt.Sprintf("SELECT %s FROM screening_indicators WHERE id = $1", indicatorColumns)
	var indicator models.ScreeningIndicator
	if err := r.db.GetContext(ctx, &indicator, query, id); err != nil {
		return nil, err
	}
	return &indicator, nil
}

// Create inserts an instrument and any inline indicators in one transaction.
func (r *InstrumentRepository) Create(ctx context.Context, instrument *models.ScreeningInstrument, indicators []models.ScreeningIndicator) error {
	if instrument.ID == "" {
		instrument.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if instrument.CreatedAt.IsZero() {
		instrument.CreatedAt = now
	}
	instrument.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const query = `INSERT INTO screening_instruments (id, nome, descricao, categoria, faixa_etaria, tempo_aplicacao, instrucoes, ativo, created_at, updated_at)
VALUES (:id, :nome, :descricao, :categoria, :faixa_etaria, :tempo_aplicacao, :instrucoes, :ativo, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, instrument); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("create instrument: %w", err)
	}
	for i := range indicators {
		indicators[i].ID = uuid.NewString()
		indicators[i].InstrumentoID = instrument.ID
		indicators[i].CreatedAt = now
		indicators[i].UpdatedAt = now
		if err := insertIndicator(ctx, tx, &indicators[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit instrument: %w", err)
	}
	return nil
}

// Update modifies an instrument.
func (r *InstrumentRepository) Update(ctx context.Context, instrument *models.ScreeningInstrument) error {
	instrument.UpdatedAt = time.Now().UTC()
	const query = `UPDATE screening_instruments SET nome = :nome, descricao = :descricao, categoria = :categoria,
faixa_etaria = :faixa_etaria, tempo_aplicacao = :tempo_aplicacao, instrucoes = :instrucoes, ativo = :ativo,
updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, instrument); err != nil {
		return fmt.Errorf("update instrument: %w", err)
	}
	return nil
}

// SoftDelete flips the ativo flag leaving all rows intact.
func (r *InstrumentRepository) SoftDelete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE screening_instruments SET ativo = false, updated_at = $1 WHERE id = $2", time.Now().UTC(), id); err != nil {
		return fmt.Errorf("soft delete instrument: %w", err)
	}
	return nil
}

// HardDelete removes the instrument and all of its indicators atomically.
func (r *InstrumentRepository) HardDelete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM screening_indicators WHERE instrumento_id = $1", id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete indicators: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM screening_instruments WHERE id = $1", id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete instrument: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit instrument delete: %w", err)
	}
	return nil
}

// CountScreenings returns how many screenings reference the instrument.
func (r *InstrumentRepository) CountScreenings(ctx context.Context, instrumentID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM screenings WHERE instrumento_id = $1", instrumentID); err != nil {
		return 0, fmt.Errorf("count screenings: %w", err)
	}
	return count, nil
}

// CreateIndicator appends an indicator to an existing instrument.
func (r *InstrumentRepository) CreateIndicator(ctx context.Context, indicator *models.ScreeningIndicator) error {
	if indicator.ID == "" {
		indicator.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if indicator.CreatedAt.IsZero() {
		indicator.CreatedAt = now
	}
	indicator.UpdatedAt = now
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := insertIndicator(ctx, tx, indicator); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit indicator: %w", err)
	}
	return nil
}

// UpdateIndicator modifies an indicator.
func (r *InstrumentRepository) UpdateIndicator(ctx context.Context, indicator *models.ScreeningIndicator) error {
	indicator.UpdatedAt = time.Now().UTC()
	const query = `UPDATE screening_indicators SET nome = :nome, descricao = :descricao, tipo = :tipo,
valor_minimo = :valor_minimo, valor_maximo = :valor_maximo, ponto_corte = :ponto_corte, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, indicator); err != nil {
		return fmt.Errorf("update indicator: %w", err)
	}
	return nil
}

// DeleteIndicator removes an indicator row.
func (r *InstrumentRepository) DeleteIndicator(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM screening_indicators WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete indicator: %w", err)
	}
	return nil
}

// CountIndicatorResults returns how many results reference the indicator.
func (r *InstrumentRepository) CountIndicatorResults(ctx context.Context, indicatorID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM screening_results WHERE indicador_id = $1", indicatorID); err != nil {
		return 0, fmt.Errorf("count indicator results: %w", err)
	}
	return count, nil
}

func insertIndicator(ctx context.Context, tx *sqlx.Tx, indicator *models.ScreeningIndicator) error {
	const query = `INSERT INTO screening_indicators (id, instrumento_id, nome, descricao, tipo, valor_minimo, valor_maximo, ponto_corte, created_at, updated_at)
VALUES (:id, :instrumento_id, :nome, :descricao, :tipo, :valor_minimo, :valor_maximo, :ponto_corte, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, indicator); err != nil {
		return fmt.Errorf("insert indicator: %w", err)
	}
	return nil
}
