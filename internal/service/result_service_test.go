package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/innerview/innerview-api/internal/dto"
	"github.com/innerview/innerview-api/internal/models"
	appErrors "github.com/innerview/innerview-api/pkg/errors"
)

type mockResultRepo struct {
	stored     map[string]*models.ScreeningResult
	batchCalls int
	batchErr   error
}

func newMockResultRepo() *mockResultRepo {
	return &mockResultRepo{stored: make(map[string]*models.ScreeningResult)}
}

func (m *mockResultRepo) ListByScreening(ctx context.Context, screeningID string) ([]models.ScreeningResult, error) {
	results := make([]models.ScreeningResult, 0)
	for _, result := range m.stored {
		if result.RastreioID == screeningID {
			results = append(results, *result)
		}
	}
	return results, nil
}

func (m *mockResultRepo) GetByID(ctx context.Context, id string) (*models.ScreeningResult, error) {
	for _, result := range m.stored {
		if result.ID == id {
			copy := *result
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockResultRepo) Upsert(ctx context.Context, result *models.ScreeningResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	stored := *result
	m.stored[result.RastreioID+"|"+result.IndicadorID] = &stored
	return nil
}

func (m *mockResultRepo) BatchUpsert(ctx context.Context, results []models.ScreeningResult) error {
	m.batchCalls++
	if m.batchErr != nil {
		return m.batchErr
	}
	for i := range results {
		if err := m.Upsert(ctx, &results[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockResultRepo) Update(ctx context.Context, result *models.ScreeningResult) error {
	stored := *result
	m.stored[result.RastreioID+"|"+result.IndicadorID] = &stored
	return nil
}

func (m *mockResultRepo) Delete(ctx context.Context, id string) error {
	for key, result := range m.stored {
		if result.ID == id {
			delete(m.stored, key)
		}
	}
	return nil
}

type mockResultScreenings struct {
	screenings    map[string]*models.Screening
	resultCount   int
	statusUpdates []models.ScreeningStatus
}

func (m *mockResultScreenings) GetByID(ctx context.Context, id string) (*models.Screening, error) {
	screening, ok := m.screenings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *screening
	return &copy, nil
}

func (m *mockResultScreenings) UpdateStatus(ctx context.Context, id string, status models.ScreeningStatus) error {
	m.statusUpdates = append(m.statusUpdates, status)
	if screening, ok := m.screenings[id]; ok {
		screening.Status = status
	}
	return nil
}

func (m *mockResultScreenings) CountResults(ctx context.Context, screeningID string) (int, error) {
	return m.resultCount, nil
}

type mockResultIndicators struct {
	indicators map[string]*models.ScreeningIndicator
}

func (m *mockResultIndicators) GetIndicator(ctx context.Context, id string) (*models.ScreeningIndicator, error) {
	indicator, ok := m.indicators[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *indicator
	return &copy, nil
}

func (m *mockResultIndicators) ListIndicators(ctx context.Context, instrumentID string) ([]models.ScreeningIndicator, error) {
	indicators := make([]models.ScreeningIndicator, 0)
	for _, indicator := range m.indicators {
		if indicator.InstrumentoID == instrumentID {
			indicators = append(indicators, *indicator)
		}
	}
	return indicators, nil
}

type resultFixture struct {
	repo        *mockResultRepo
	screenings  *mockResultScreenings
	indicators  *mockResultIndicators
	svc         *ResultService
	screeningID string
	instrument  string
}

// newResultFixture wires a screening with the given cutoff-bearing indicators.
func newResultFixture(t *testing.T, indicatorIDs ...string) *resultFixture {
	t.Helper()
	instrumentID := uuid.NewString()
	screeningID := uuid.NewString()
	screenings := &mockResultScreenings{screenings: map[string]*models.Screening{
		screeningID: {ID: screeningID, InstrumentoID: instrumentID, Status: models.ScreeningPending},
	}}
	cutoff := 5.0
	indicators := &mockResultIndicators{indicators: make(map[string]*models.ScreeningIndicator)}
	for _, id := range indicatorIDs {
		indicators.indicators[id] = &models.ScreeningIndicator{
			ID:            id,
			InstrumentoID: instrumentID,
			ValorMinimo:   0,
			ValorMaximo:   10,
			PontoCorte:    &cutoff,
		}
	}
	repo := newMockResultRepo()
	svc := NewResultService(repo, screenings, indicators, validator.New(), zap.NewNop(), nil)
	return &resultFixture{repo: repo, screenings: screenings, indicators: indicators, svc: svc, screeningID: screeningID, instrument: instrumentID}
}

func TestResultServiceCreateDerivesHighRisk(t *testing.T) {
	indicatorID := uuid.NewString()
	f := newResultFixture(t, indicatorID)

	result, err := f.svc.Create(context.Background(), dto.CreateResultRequest{
		RastreioID:  f.screeningID,
		IndicadorID: indicatorID,
		Valor:       7,
	})
	require.NoError(t, err)
	require.NotNil(t, result.NivelRisco)
	assert.Equal(t, models.RiskHigh, *result.NivelRisco)
}

func TestResultServiceCreateDerivesLowRisk(t *testing.T) {
	indicatorID := uuid.NewString()
	f := newResultFixture(t, indicatorID)

	result, err := f.svc.Create(context.Background(), dto.CreateResultRequest{
		RastreioID:  f.screeningID,
		IndicadorID: indicatorID,
		Valor:       3,
	})
	require.NoError(t, err)
	require.NotNil(t, result.NivelRisco)
	assert.Equal(t, models.RiskLow, *result.NivelRisco)
}

func TestResultServiceCreateKeepsProvidedRisk(t *testing.T) {
	indicatorID := uuid.NewString()
	f := newResultFixture(t, indicatorID)

	provided := string(models.RiskModerate)
	result, err := f.svc.Create(context.Background(), dto.CreateResultRequest{
		RastreioID:  f.screeningID,
		IndicadorID: indicatorID,
		Valor:       9,
		NivelRisco:  &provided,
	})
	require.NoError(t, err)
	require.NotNil(t, result.NivelRisco)
	assert.Equal(t, models.RiskModerate, *result.NivelRisco)
}

func TestResultServiceCreateValueOutOfBounds(t *testing.T) {
	indicatorID := uuid.NewString()
	f := newResultFixture(t, indicatorID)

	_, err := f.svc.Create(context.Background(), dto.CreateResultRequest{
		RastreioID:  f.screeningID,
		IndicadorID: indicatorID,
		Valor:       11,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, f.repo.stored)
}

func TestResultServiceCreateIndicatorFromOtherInstrument(t *testing.T) {
	indicatorID := uuid.NewString()
	f := newResultFixture(t, indicatorID)
	f.indicators.indicators[indicatorID].InstrumentoID = uuid.NewString()

	_, err := f.svc.Create(context.Background(), dto.CreateResultRequest{
		RastreioID:  f.screeningID,
		IndicadorID: indicatorID,
		Valor:       5,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestResultServiceBatchCompletesScreening(t *testing.T) {
	indicatorA := uuid.NewString()
	indicatorB := uuid.NewString()
	f := newResultFixture(t, indicatorA, indicatorB)
	f.screenings.resultCount = 2

	stored, err := f.svc.RegisterBatch(context.Background(), f.screeningID, dto.BatchResultsRequest{
		Resultados: []dto.BatchResultItem{
			{IndicadorID: indicatorA, Valor: 7},
			{IndicadorID: indicatorB, Valor: 2},
		},
	})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	require.Len(t, f.screenings.statusUpdates, 1)
	assert.Equal(t, models.ScreeningCompleted, f.screenings.statusUpdates[0])
}

func TestResultServiceBatchPartialKeepsStatus(t *testing.T) {
	indicatorA := uuid.NewString()
	indicatorB := uuid.NewString()
	f := newResultFixture(t, indicatorA, indicatorB)
	f.screenings.resultCount = 1

	_, err := f.svc.RegisterBatch(context.Background(), f.screeningID, dto.BatchResultsRequest{
		Resultados: []dto.BatchResultItem{{IndicadorID: indicatorA, Valor: 7}},
	})
	require.NoError(t, err)
	assert.Empty(t, f.screenings.statusUpdates)
}

func TestResultServiceBatchUnknownIndicator(t *testing.T) {
	indicatorID := uuid.NewString()
	f := newResultFixture(t, indicatorID)

	_, err := f.svc.RegisterBatch(context.Background(), f.screeningID, dto.BatchResultsRequest{
		Resultados: []dto.BatchResultItem{
			{IndicadorID: indicatorID, Valor: 7},
			{IndicadorID: uuid.NewString(), Valor: 2},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Zero(t, f.repo.batchCalls)
}

func TestResultServiceCompletedScreeningStaysCompleted(t *testing.T) {
	indicatorID := uuid.NewString()
	f := newResultFixture(t, indicatorID)
	f.screenings.screenings[f.screeningID].Status = models.ScreeningCompleted
	f.screenings.resultCount = 1

	_, err := f.svc.Create(context.Background(), dto.CreateResultRequest{
		RastreioID:  f.screeningID,
		IndicadorID: indicatorID,
		Valor:       6,
	})
	require.NoError(t, err)
	assert.Empty(t, f.screenings.statusUpdates)
}

func TestResultServiceUpdateRederivesRisk(t *testing.T) {
	indicatorID := uuid.NewString()
	f := newResultFixture(t, indicatorID)

	low := models.RiskLow
	resultID := uuid.NewString()
	f.repo.stored[f.screeningID+"|"+indicatorID] = &models.ScreeningResult{
		ID:          resultID,
		RastreioID:  f.screeningID,
		IndicadorID: indicatorID,
		Valor:       2,
		NivelRisco:  &low,
	}

	newValue := 8.0
	updated, err := f.svc.Update(context.Background(), resultID, dto.UpdateResultRequest{Valor: &newValue})
	require.NoError(t, err)
	require.NotNil(t, updated.NivelRisco)
	assert.Equal(t, models.RiskHigh, *updated.NivelRisco)
}

func TestResultServiceUpdateNotFound(t *testing.T) {
	f := newResultFixture(t, uuid.NewString())

	value := 5.0
	_, err := f.svc.Update(context.Background(), uuid.NewString(), dto.UpdateResultRequest{Valor: &value})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
