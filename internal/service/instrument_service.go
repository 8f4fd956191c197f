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

type instrumentRepository interface {
	List(ctx context.Context, includeInactive bool) ([]models.ScreeningInstrument, error)
	GetByID(ctx context.Context, id string) (*models.ScreeningInstrument, error)
	ListIndicators(ctx context.Context, instrumentID string) ([]models.ScreeningIndicator, error)
	ListIndicatorsByInstruments(ctx context.Context, instrumentIDs []string) (map[string][]models.ScreeningIndicator, error)
	GetIndicator(ctx context.Context, id string) (*models.ScreeningIndicator, error)
	Create(ctx context.Context, instrument *models.ScreeningInstrument, indicators []models.ScreeningIndicator) error
	Update(ctx context.Context, instrument *models.ScreeningInstrument) error
	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	CountScreenings(ctx context.Context, instrumentID string) (int, error)
	CreateIndicator(ctx context.Context, indicator *models.ScreeningIndicator) error
	UpdateIndicator(ctx context.Context, indicator *models.ScreeningIndicator) error
	DeleteIndicator(ctx context.Context, id string) error
	CountIndicatorResults(ctx context.Context, indicatorID string) (int, error)
}

// InstrumentService manages screening instruments and their indicators.
type InstrumentService struct {
	repo        instrumentRepository
	validator   *validator.Validate
	logger      *zap.Logger
	invalidator overviewInvalidator
}

// NewInstrumentService constructs the service.
func NewInstrumentService(repo instrumentRepository, validate *validator.Validate, logger *zap.Logger, invalidator overviewInvalidator) *InstrumentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &InstrumentService{repo: repo, validator: validate, logger: logger, invalidator: invalidator}
	registerEnumValidation(svc.validator, "instrument_category", string(models.CategoryAcademic), string(models.CategoryBehavioral), string(models.CategorySocioEmotional), string(models.CategorySpeechLanguage))
	registerEnumValidation(svc.validator, "indicator_type", string(models.IndicatorNumeric), string(models.IndicatorLikertScale), string(models.IndicatorYesNo))
	return svc
}

// List returns instruments with their indicators attached.
func (s *InstrumentService) List(ctx context.Context, includeInactive bool) ([]models.ScreeningInstrument, error) {
	instruments, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instruments")
	}
	ids := make([]string, 0, len(instruments))
	for _, instrument := range instruments {
		ids = append(ids, instrument.ID)
	}
	grouped, err := s.repo.ListIndicatorsByInstruments(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load indicators")
	}
	for i := range instruments {
		instruments[i].Indicadores = grouped[instruments[i].ID]
	}
	return instruments, nil
}

// Get returns one instrument with its indicators.
func (s *InstrumentService) Get(ctx context.Context, id string) (*models.ScreeningInstrument, error) {
	instrument, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instrument not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get instrument")
	}
	indicators, err := s.repo.ListIndicators(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load indicators")
	}
	instrument.Indicadores = indicators
	return instrument, nil
}

// Create registers an instrument, optionally with inline indicators.
func (s *InstrumentService) Create(ctx context.Context, req dto.CreateInstrumentRequest) (*models.ScreeningInstrument, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instrument payload")
	}
	indicators := make([]models.ScreeningIndicator, 0, len(req.Indicadores))
	for _, item := range req.Indicadores {
		indicator := models.ScreeningIndicator{
			Nome:        item.Nome,
			Descricao:   item.Descricao,
			Tipo:        models.IndicatorType(item.Tipo),
			ValorMinimo: item.ValorMinimo,
			ValorMaximo: item.ValorMaximo,
			PontoCorte:  item.PontoCorte,
		}
		if err := validateIndicatorBounds(&indicator); err != nil {
			return nil, err
		}
		indicators = append(indicators, indicator)
	}
	instrument := &models.ScreeningInstrument{
		Nome:           req.Nome,
		Descricao:      req.Descricao,
		Categoria:      models.InstrumentCategory(req.Categoria),
		FaixaEtaria:    req.FaixaEtaria,
		TempoAplicacao: req.TempoAplicacao,
		Instrucoes:     req.Instrucoes,
		Ativo:          true,
	}
	if err := s.repo.Create(ctx, instrument, indicators); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create instrument")
	}
	instrument.Indicadores = indicators
	s.invalidateOverview(ctx)
	return instrument, nil
}

// Update applies a partial update to an instrument.
func (s *InstrumentService) Update(ctx context.Context, id string, req dto.UpdateInstrumentRequest) (*models.ScreeningInstrument, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instrument payload")
	}
	instrument, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instrument not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instrument")
	}
	if req.Nome != nil {
		instrument.Nome = *req.Nome
	}
	if req.Descricao != nil {
		instrument.Descricao = *req.Descricao
	}
	if req.Categoria != nil {
		instrument.Categoria = models.InstrumentCategory(*req.Categoria)
	}
	if req.FaixaEtaria != nil {
		instrument.FaixaEtaria = *req.FaixaEtaria
	}
	if req.TempoAplicacao != nil {
		instrument.TempoAplicacao = *req.TempoAplicacao
	}
	if req.Instrucoes != nil {
		instrument.Instrucoes = *req.Instrucoes
	}
	if req.Ativo != nil {
		instrument.Ativo = *req.Ativo
	}
	if err := s.repo.Update(ctx, instrument); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update instrument")
	}
	indicators, err := s.repo.ListIndicators(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load indicators")
	}
	instrument.Indicadores = indicators
	s.invalidateOverview(ctx)
	return instrument, nil
}

// Delete removes an instrument. Instruments already referenced by screenings
// are deactivated instead of removed, so history stays intact.
func (s *InstrumentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "instrument not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instrument")
	}
	inUse, err := s.repo.CountScreenings(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check instrument usage")
	}
	if inUse > 0 {
		if err := s.repo.SoftDelete(ctx, id); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate instrument")
		}
	} else {
		if err := s.repo.HardDelete(ctx, id); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete instrument")
		}
	}
	s.invalidateOverview(ctx)
	return nil
}

// AddIndicator appends an indicator to an instrument.
func (s *InstrumentService) AddIndicator(ctx context.Context, instrumentID string, req dto.CreateIndicatorRequest) (*models.ScreeningIndicator, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid indicator payload")
	}
	if _, err := s.repo.GetByID(ctx, instrumentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instrument not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instrument")
	}
	indicator := &models.ScreeningIndicator{
		InstrumentoID: instrumentID,
		Nome:          req.Nome,
		Descricao:     req.Descricao,
		Tipo:          models.IndicatorType(req.Tipo),
		ValorMinimo:   req.ValorMinimo,
		ValorMaximo:   req.ValorMaximo,
		PontoCorte:    req.PontoCorte,
	}
	if err := validateIndicatorBounds(indicator); err != nil {
		return nil, err
	}
	if err := s.repo.CreateIndicator(ctx, indicator); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create indicator")
	}
	return indicator, nil
}

// UpdateIndicator applies a partial update to an indicator of an instrument.
func (s *InstrumentService) UpdateIndicator(ctx context.Context, instrumentID, indicatorID string, req dto.UpdateIndicatorRequest) (*models.ScreeningIndicator, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid indicator payload")
	}
	indicator, err := s.getOwnedIndicator(ctx, instrumentID, indicatorID)
	if err != nil {
		return nil, err
	}
	if req.Nome != nil {
		indicator.Nome = *req.Nome
	}
	if req.Descricao != nil {
		indicator.Descricao = *req.Descricao
	}
	if req.Tipo != nil {
		indicator.Tipo = models.IndicatorType(*req.Tipo)
	}
	if req.ValorMinimo != nil {
		indicator.ValorMinimo = *req.ValorMinimo
	}
	if req.ValorMaximo != nil {
		indicator.ValorMaximo = *req.ValorMaximo
	}
	if req.PontoCorte != nil {
		indicator.PontoCorte = req.PontoCorte
	}
	if err := validateIndicatorBounds(indicator); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateIndicator(ctx, indicator); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update indicator")
	}
	return indicator, nil
}

// DeleteIndicator removes an indicator. Indicators with recorded results are
// never removed.
func (s *InstrumentService) DeleteIndicator(ctx context.Context, instrumentID, indicatorID string) error {
	indicator, err := s.getOwnedIndicator(ctx, instrumentID, indicatorID)
	if err != nil {
		return err
	}
	results, err := s.repo.CountIndicatorResults(ctx, indicator.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check indicator usage")
	}
	if results > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "indicator has recorded results and cannot be removed")
	}
	if err := s.repo.DeleteIndicator(ctx, indicator.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete indicator")
	}
	return nil
}

func (s *InstrumentService) getOwnedIndicator(ctx context.Context, instrumentID, indicatorID string) (*models.ScreeningIndicator, error) {
	indicator, err := s.repo.GetIndicator(ctx, indicatorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "indicator not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load indicator")
	}
	if indicator.InstrumentoID != instrumentID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "indicator does not belong to instrument")
	}
	return indicator, nil
}

func validateIndicatorBounds(indicator *models.ScreeningIndicator) error {
	if indicator.ValorMinimo >= indicator.ValorMaximo {
		return appErrors.Clone(appErrors.ErrValidation, "valorMinimo must be lower than valorMaximo")
	}
	if indicator.PontoCorte != nil {
		cutoff := *indicator.PontoCorte
		if cutoff < indicator.ValorMinimo || cutoff > indicator.ValorMaximo {
			return appErrors.Clone(appErrors.ErrValidation, "pontoCorte must lie within [valorMinimo, valorMaximo]")
		}
	}
	return nil
}

func (s *InstrumentService) invalidateOverview(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateOverview(ctx); err != nil {
		s.logger.Warn("failed to invalidate overview cache", zap.Error(err))
	}
}
