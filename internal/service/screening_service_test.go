package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/innerview/innerview-api/internal/dto"
	"github.com/innerview/innerview-api/internal/models"
	appErrors "github.com/innerview/innerview-api/pkg/errors"
)

type mockScreeningRepo struct {
	screenings  map[string]*models.Screening
	resultCount int
	deleted     []string
}

func newMockScreeningRepo() *mockScreeningRepo {
	return &mockScreeningRepo{screenings: make(map[string]*models.Screening)}
}

func (m *mockScreeningRepo) List(ctx context.Context, filter models.ScreeningFilter) ([]models.Screening, int, error) {
	screenings := make([]models.Screening, 0, len(m.screenings))
	for _, screening := range m.screenings {
		screenings = append(screenings, *screening)
	}
	return screenings, len(screenings), nil
}

func (m *mockScreeningRepo) GetByID(ctx context.Context, id string) (*models.Screening, error) {
	screening, ok := m.screenings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *screening
	return &copy, nil
}

func (m *mockScreeningRepo) Create(ctx context.Context, screening *models.Screening) error {
	if screening.ID == "" {
		screening.ID = uuid.NewString()
	}
	m.screenings[screening.ID] = screening
	return nil
}

func (m *mockScreeningRepo) Update(ctx context.Context, screening *models.Screening) error {
	m.screenings[screening.ID] = screening
	return nil
}

func (m *mockScreeningRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.screenings, id)
	return nil
}

func (m *mockScreeningRepo) CountResults(ctx context.Context, screeningID string) (int, error) {
	return m.resultCount, nil
}

type mockScreeningInstruments struct {
	instruments map[string]*models.ScreeningInstrument
}

func (m *mockScreeningInstruments) GetByID(ctx context.Context, id string) (*models.ScreeningInstrument, error) {
	instrument, ok := m.instruments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return instrument, nil
}

type mockScreeningResults struct {
	results []models.ScreeningResult
}

func (m *mockScreeningResults) ListByScreening(ctx context.Context, screeningID string) ([]models.ScreeningResult, error) {
	return m.results, nil
}

func TestScreeningServiceCreateSetsPending(t *testing.T) {
	repo := newMockScreeningRepo()
	instrumentID := uuid.NewString()
	instruments := &mockScreeningInstruments{instruments: map[string]*models.ScreeningInstrument{
		instrumentID: {ID: instrumentID, Ativo: true},
	}}
	svc := NewScreeningService(repo, instruments, &mockScreeningResults{}, validator.New(), zap.NewNop(), nil)

	screening, err := svc.Create(context.Background(), dto.CreateScreeningRequest{
		InstrumentoID: instrumentID,
		EstudanteID:   uuid.NewString(),
		DataAplicacao: time.Now(),
	}, "applicator-1")
	require.NoError(t, err)
	assert.Equal(t, models.ScreeningPending, screening.Status)
	assert.Equal(t, "applicator-1", screening.AplicadorID)
}

func TestScreeningServiceCreateInactiveInstrument(t *testing.T) {
	instrumentID := uuid.NewString()
	instruments := &mockScreeningInstruments{instruments: map[string]*models.ScreeningInstrument{
		instrumentID: {ID: instrumentID, Ativo: false},
	}}
	svc := NewScreeningService(newMockScreeningRepo(), instruments, &mockScreeningResults{}, validator.New(), zap.NewNop(), nil)

	_, err := svc.Create(context.Background(), dto.CreateScreeningRequest{
		InstrumentoID: instrumentID,
		EstudanteID:   uuid.NewString(),
		DataAplicacao: time.Now(),
	}, "applicator-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScreeningServiceCreateUnknownInstrument(t *testing.T) {
	instruments := &mockScreeningInstruments{instruments: map[string]*models.ScreeningInstrument{}}
	svc := NewScreeningService(newMockScreeningRepo(), instruments, &mockScreeningResults{}, validator.New(), zap.NewNop(), nil)

	_, err := svc.Create(context.Background(), dto.CreateScreeningRequest{
		InstrumentoID: uuid.NewString(),
		EstudanteID:   uuid.NewString(),
		DataAplicacao: time.Now(),
	}, "applicator-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScreeningServiceGetAttachesResults(t *testing.T) {
	repo := newMockScreeningRepo()
	repo.screenings["scr-1"] = &models.Screening{ID: "scr-1", Status: models.ScreeningPending}
	results := &mockScreeningResults{results: []models.ScreeningResult{{ID: "res-1", RastreioID: "scr-1"}}}
	svc := NewScreeningService(repo, &mockScreeningInstruments{}, results, validator.New(), zap.NewNop(), nil)

	screening, err := svc.Get(context.Background(), "scr-1")
	require.NoError(t, err)
	require.Len(t, screening.Resultados, 1)
	assert.Equal(t, "res-1", screening.Resultados[0].ID)
}

func TestScreeningServiceDeleteWithResults(t *testing.T) {
	repo := newMockScreeningRepo()
	repo.screenings["scr-1"] = &models.Screening{ID: "scr-1"}
	repo.resultCount = 3
	svc := NewScreeningService(repo, &mockScreeningInstruments{}, &mockScreeningResults{}, validator.New(), zap.NewNop(), nil)

	err := svc.Delete(context.Background(), "scr-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestScreeningServiceDeleteWithoutResults(t *testing.T) {
	repo := newMockScreeningRepo()
	repo.screenings["scr-1"] = &models.Screening{ID: "scr-1"}
	svc := NewScreeningService(repo, &mockScreeningInstruments{}, &mockScreeningResults{}, validator.New(), zap.NewNop(), nil)

	err := svc.Delete(context.Background(), "scr-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"scr-1"}, repo.deleted)
}
