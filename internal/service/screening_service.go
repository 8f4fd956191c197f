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

type screeningRepository interface {
	List(ctx context.Context, filter models.ScreeningFilter) ([]models.Screening, int, error)
	GetByID(ctx context.Context, id string) (*models.Screening, error)
	Create(ctx context.Context, screening *models.Screening) error
	Update(ctx context.Context, screening *models.Screening) error
	Delete(ctx context.Context, id string) error
	CountResults(ctx context.Context, screeningID string) (int, error)
}

type screeningInstrumentLookup interface {
	GetByID(ctx context.Context, id string) (*models.ScreeningInstrument, error)
}

type screeningResultLister interface {
	ListByScreening(ctx context.Context, screeningID string) ([]models.ScreeningResult, error)
}

// ScreeningService manages instrument applications.
type ScreeningService struct {
	repo        screeningRepository
	instruments screeningInstrumentLookup
	results     screeningResultLister
	validator   *validator.Validate
	logger      *zap.Logger
	invalidator overviewInvalidator
}

// NewScreeningService constructs the service.
func NewScreeningService(repo screeningRepository, instruments screeningInstrumentLookup, results screeningResultLister, validate *validator.Validate, logger *zap.Logger, invalidator overviewInvalidator) *ScreeningService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ScreeningService{repo: repo, instruments: instruments, results: results, validator: validate, logger: logger, invalidator: invalidator}
	registerEnumValidation(svc.validator, "screening_status", string(models.ScreeningPending), string(models.ScreeningInProgress), string(models.ScreeningCompleted))
	return svc
}

// ScreeningListRequest describes filters for listing screenings.
type ScreeningListRequest struct {
	EstudanteID   string
	InstrumentoID string
	Status        string
	Page          int
	PageSize      int
}

// List returns screenings matching the filter.
func (s *ScreeningService) List(ctx context.Context, req ScreeningListRequest) ([]models.Screening, *models.Pagination, error) {
	filter := models.ScreeningFilter{
		EstudanteID:   req.EstudanteID,
		InstrumentoID: req.InstrumentoID,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	if req.Status != "" {
		status := models.ScreeningStatus(req.Status)
		filter.Status = &status
	}
	screenings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list screenings")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return screenings, pagination, nil
}

// Get returns one screening with its recorded results.
func (s *ScreeningService) Get(ctx context.Context, id string) (*models.Screening, error) {
	screening, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "screening not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get screening")
	}
	results, err := s.results.ListByScreening(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results")
	}
	screening.Resultados = results
	return screening, nil
}

// Create registers an instrument application. The instrument must exist and
// be active.
func (s *ScreeningService) Create(ctx context.Context, req dto.CreateScreeningRequest, applicatorID string) (*models.Screening, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid screening payload")
	}
	instrument, err := s.instruments.GetByID(ctx, req.InstrumentoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instrument not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instrument")
	}
	if !instrument.Ativo {
		return nil, appErrors.Clone(appErrors.ErrValidation, "instrument is inactive")
	}
	screening := &models.Screening{
		InstrumentoID: req.InstrumentoID,
		EstudanteID:   req.EstudanteID,
		AplicadorID:   applicatorID,
		Status:        models.ScreeningPending,
		DataAplicacao: req.DataAplicacao,
		Observacoes:   req.Observacoes,
	}
	if err := s.repo.Create(ctx, screening); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create screening")
	}
	s.invalidateOverview(ctx)
	return screening, nil
}

// Update applies a partial update to a screening.
func (s *ScreeningService) Update(ctx context.Context, id string, req dto.UpdateScreeningRequest) (*models.Screening, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid screening payload")
	}
	screening, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "screening not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load screening")
	}
	if req.Status != nil {
		screening.Status = models.ScreeningStatus(*req.Status)
	}
	if req.DataAplicacao != nil {
		screening.DataAplicacao = *req.DataAplicacao
	}
	if req.Observacoes != nil {
		screening.Observacoes = req.Observacoes
	}
	if err := s.repo.Update(ctx, screening); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update screening")
	}
	s.invalidateOverview(ctx)
	return screening, nil
}

// Delete removes a screening. Screenings with recorded results are kept.
func (s *ScreeningService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "screening not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load screening")
	}
	results, err := s.repo.CountResults(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check screening results")
	}
	if results > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "screening has recorded results and cannot be removed")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete screening")
	}
	s.invalidateOverview(ctx)
	return nil
}

func (s *ScreeningService) invalidateOverview(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateOverview(ctx); err != nil {
		s.logger.Warn("failed to invalidate overview cache", zap.Error(err))
	}
}
