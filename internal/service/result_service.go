package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/innerview/innerview-api/internal/dto"
	"github.com/innerview/innerview-api/internal/models"
	appErrors "github.com/innerview/innerview-api/pkg/errors"
)

type resultRepository interface {
	ListByScreening(ctx context.Context, screeningID string) ([]models.ScreeningResult, error)
	GetByID(ctx context.Context, id string) (*models.ScreeningResult, error)
	Upsert(ctx context.Context, result *models.ScreeningResult) error
	BatchUpsert(ctx context.Context, results []models.ScreeningResult) error
	Update(ctx context.Context, result *models.ScreeningResult) error
	Delete(ctx context.Context, id string) error
}

type resultScreeningRepository interface {
	GetByID(ctx context.Context, id string) (*models.Screening, error)
	UpdateStatus(ctx context.Context, id string, status models.ScreeningStatus) error
	CountResults(ctx context.Context, screeningID string) (int, error)
}

type resultIndicatorLookup interface {
	GetIndicator(ctx context.Context, id string) (*models.ScreeningIndicator, error)
	ListIndicators(ctx context.Context, instrumentID string) ([]models.ScreeningIndicator, error)
}

// ResultService records screening results and drives the completion
// transition of the owning screening.
type ResultService struct {
	repo        resultRepository
	screenings  resultScreeningRepository
	indicators  resultIndicatorLookup
	validator   *validator.Validate
	logger      *zap.Logger
	invalidator overviewInvalidator
}

// NewResultService constructs the service.
func NewResultService(repo resultRepository, screenings resultScreeningRepository, indicators resultIndicatorLookup, validate *validator.Validate, logger *zap.Logger, invalidator overviewInvalidator) *ResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ResultService{repo: repo, screenings: screenings, indicators: indicators, validator: validate, logger: logger, invalidator: invalidator}
	registerEnumValidation(svc.validator, "risk_level", string(models.RiskLow), string(models.RiskModerate), string(models.RiskHigh))
	return svc
}

// ListByScreening returns all results recorded for a screening.
func (s *ResultService) ListByScreening(ctx context.Context, screeningID string) ([]models.ScreeningResult, error) {
	if _, err := s.screenings.GetByID(ctx, screeningID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "screening not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load screening")
	}
	results, err := s.repo.ListByScreening(ctx, screeningID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list results")
	}
	return results, nil
}

// Create upserts a single result. Registering the same (rastreio, indicador)
// pair again overwrites the stored value instead of duplicating it.
func (s *ResultService) Create(ctx context.Context, req dto.CreateResultRequest) (*models.ScreeningResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result payload")
	}
	screening, indicator, err := s.resolveTarget(ctx, req.RastreioID, req.IndicadorID)
	if err != nil {
		return nil, err
	}
	if err := validateValueBounds(req.Valor, indicator); err != nil {
		return nil, err
	}
	result := &models.ScreeningResult{
		RastreioID:  req.RastreioID,
		IndicadorID: req.IndicadorID,
		Valor:       req.Valor,
		NivelRisco:  resolveRiskLevel(req.NivelRisco, req.Valor, indicator),
		Observacoes: req.Observacoes,
	}
	if err := s.repo.Upsert(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save result")
	}
	if err := s.maybeComplete(ctx, screening); err != nil {
		s.logger.Warn("failed to run screening completion check", zap.String("screening_id", screening.ID), zap.Error(err))
	}
	s.invalidateOverview(ctx)
	return result, nil
}

// RegisterBatch upserts several results for one screening atomically, then
// runs the completion check once.
func (s *ResultService) RegisterBatch(ctx context.Context, screeningID string, req dto.BatchResultsRequest) ([]models.ScreeningResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}
	screening, err := s.screenings.GetByID(ctx, screeningID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "screening not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load screening")
	}
	indicators, err := s.indicators.ListIndicators(ctx, screening.InstrumentoID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load indicators")
	}
	byID := make(map[string]*models.ScreeningIndicator, len(indicators))
	for i := range indicators {
		byID[indicators[i].ID] = &indicators[i]
	}

	results := make([]models.ScreeningResult, 0, len(req.Resultados))
	for _, item := range req.Resultados {
		indicator, ok := byID[item.IndicadorID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "indicator does not belong to the screening's instrument: "+item.IndicadorID)
		}
		if err := validateValueBounds(item.Valor, indicator); err != nil {
			return nil, err
		}
		results = append(results, models.ScreeningResult{
			RastreioID:  screeningID,
			IndicadorID: item.IndicadorID,
			Valor:       item.Valor,
			NivelRisco:  resolveRiskLevel(item.NivelRisco, item.Valor, indicator),
			Observacoes: item.Observacoes,
		})
	}
	if err := s.repo.BatchUpsert(ctx, results); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save results")
	}
	if err := s.maybeComplete(ctx, screening); err != nil {
		s.logger.Warn("failed to run screening completion check", zap.String("screening_id", screening.ID), zap.Error(err))
	}
	s.invalidateOverview(ctx)
	stored, err := s.repo.ListByScreening(ctx, screeningID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload results")
	}
	return stored, nil
}

// Update modifies a stored result.
func (s *ResultService) Update(ctx context.Context, id string, req dto.UpdateResultRequest) (*models.ScreeningResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result payload")
	}
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result")
	}
	indicator, err := s.indicators.GetIndicator(ctx, result.IndicadorID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load indicator")
	}
	if req.Valor != nil {
		if indicator != nil {
			if err := validateValueBounds(*req.Valor, indicator); err != nil {
				return nil, err
			}
		}
		result.Valor = *req.Valor
		if req.NivelRisco == nil && indicator != nil {
			result.NivelRisco = resolveRiskLevel(nil, result.Valor, indicator)
		}
	}
	if req.NivelRisco != nil {
		level := models.RiskLevel(*req.NivelRisco)
		result.NivelRisco = &level
	}
	if req.Observacoes != nil {
		result.Observacoes = req.Observacoes
	}
	if err := s.repo.Update(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update result")
	}
	return result, nil
}

// Delete removes a stored result.
func (s *ResultService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete result")
	}
	return nil
}

// resolveTarget loads the screening and checks the indicator belongs to the
// screening's instrument.
func (s *ResultService) resolveTarget(ctx context.Context, screeningID, indicatorID string) (*models.Screening, *models.ScreeningIndicator, error) {
	screening, err := s.screenings.GetByID(ctx, screeningID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "screening not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load screening")
	}
	indicator, err := s.indicators.GetIndicator(ctx, indicatorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "indicator not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load indicator")
	}
	if indicator.InstrumentoID != screening.InstrumentoID {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "indicator does not belong to the screening's instrument")
	}
	return screening, indicator, nil
}

// maybeComplete transitions a screening to CONCLUIDO once every indicator of
// its instrument has a stored result. Completed screenings never revert.
func (s *ResultService) maybeComplete(ctx context.Context, screening *models.Screening) error {
	if screening.Status == models.ScreeningCompleted {
		return nil
	}
	indicators, err := s.indicators.ListIndicators(ctx, screening.InstrumentoID)
	if err != nil {
		return err
	}
	if len(indicators) == 0 {
		return nil
	}
	stored, err := s.screenings.CountResults(ctx, screening.ID)
	if err != nil {
		return err
	}
	if stored < len(indicators) {
		return nil
	}
	if err := s.screenings.UpdateStatus(ctx, screening.ID, models.ScreeningCompleted); err != nil {
		return err
	}
	screening.Status = models.ScreeningCompleted
	s.logger.Info("screening completed", zap.String("screening_id", screening.ID))
	return nil
}

func validateValueBounds(value float64, indicator *models.ScreeningIndicator) error {
	if value < indicator.ValorMinimo || value > indicator.ValorMaximo {
		return appErrors.Clone(appErrors.ErrValidation, "valor outside the indicator's [valorMinimo, valorMaximo] range")
	}
	return nil
}

// resolveRiskLevel keeps an explicitly provided level; otherwise derives one
// from the indicator's cutoff when present.
func resolveRiskLevel(provided *string, value float64, indicator *models.ScreeningIndicator) *models.RiskLevel {
	if provided != nil {
		level := models.RiskLevel(*provided)
		return &level
	}
	if indicator == nil || indicator.PontoCorte == nil {
		return nil
	}
	level := models.RiskLow
	if value >= *indicator.PontoCorte {
		level = models.RiskHigh
	}
	return &level
}

func (s *ResultService) invalidateOverview(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateOverview(ctx); err != nil {
		s.logger.Warn("failed to invalidate overview cache", zap.Error(err))
	}
}
