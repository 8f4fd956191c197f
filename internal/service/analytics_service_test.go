package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/innerview/innerview-api/internal/models"
	appErrors "github.com/innerview/innerview-api/pkg/errors"
)

type mockAnalyticsRepo struct {
	calls int
}

func (m *mockAnalyticsRepo) CountInstruments(ctx context.Context) (int, int, error) {
	m.calls++
	return 4, 3, nil
}

func (m *mockAnalyticsRepo) CountScreeningsByStatus(ctx context.Context) (map[models.ScreeningStatus]int, int, error) {
	return map[models.ScreeningStatus]int{models.ScreeningCompleted: 5, models.ScreeningPending: 2}, 7, nil
}

func (m *mockAnalyticsRepo) CountPlans(ctx context.Context) (int, error) {
	return 6, nil
}

func (m *mockAnalyticsRepo) CountEvents(ctx context.Context) (int, error) {
	return 9, nil
}

type mockAnalyticsCache struct {
	overview *models.AnalyticsOverview
	sets     int
	patterns []string
}

func (m *mockAnalyticsCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.overview == nil {
		return appErrors.ErrCacheMiss
	}
	*dest.(*models.AnalyticsOverview) = *m.overview
	return nil
}

func (m *mockAnalyticsCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.sets++
	m.overview = value.(*models.AnalyticsOverview)
	return nil
}

func (m *mockAnalyticsCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	m.overview = nil
	return nil
}

type mockAnalyticsInstruments struct {
	instrument *models.ScreeningInstrument
	indicators []models.ScreeningIndicator
}

func (m *mockAnalyticsInstruments) GetByID(ctx context.Context, id string) (*models.ScreeningInstrument, error) {
	if m.instrument == nil {
		return nil, sql.ErrNoRows
	}
	return m.instrument, nil
}

func (m *mockAnalyticsInstruments) ListIndicators(ctx context.Context, instrumentID string) ([]models.ScreeningIndicator, error) {
	return m.indicators, nil
}

type mockAnalyticsResults struct {
	byIndicator map[string][]models.ScreeningResult
}

func (m *mockAnalyticsResults) ListByIndicator(ctx context.Context, indicatorID string) ([]models.ScreeningResult, error) {
	return m.byIndicator[indicatorID], nil
}

type mockCacheMetrics struct {
	hits   int
	misses int
}

func (m *mockCacheMetrics) RecordCacheOperation(hit bool) {
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func TestAnalyticsServiceOverviewCaches(t *testing.T) {
	repo := &mockAnalyticsRepo{}
	cache := &mockAnalyticsCache{}
	svc := NewAnalyticsService(repo, &mockAnalyticsInstruments{}, &mockAnalyticsResults{}, cache, nil, time.Minute, zap.NewNop())

	first, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, first.Instruments)
	assert.Equal(t, 3, first.ActiveInstruments)
	assert.Equal(t, 7, first.Screenings)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Screenings, second.Screenings)
	assert.Equal(t, 1, repo.calls)
}

func TestAnalyticsServiceOverviewWithoutCache(t *testing.T) {
	repo := &mockAnalyticsRepo{}
	svc := NewAnalyticsService(repo, &mockAnalyticsInstruments{}, &mockAnalyticsResults{}, nil, nil, time.Minute, zap.NewNop())

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, overview.InterventionPlans)
	assert.Equal(t, 9, overview.CalendarEvents)
}

func TestAnalyticsServiceInvalidateOverview(t *testing.T) {
	cache := &mockAnalyticsCache{overview: &models.AnalyticsOverview{Screenings: 1}}
	svc := NewAnalyticsService(&mockAnalyticsRepo{}, &mockAnalyticsInstruments{}, &mockAnalyticsResults{}, cache, nil, time.Minute, zap.NewNop())

	require.NoError(t, svc.InvalidateOverview(context.Background()))
	assert.Equal(t, []string{"analytics:*"}, cache.patterns)
	assert.Nil(t, cache.overview)
}

func TestAnalyticsServiceInvalidateOverviewNilReceiver(t *testing.T) {
	var svc *AnalyticsService
	require.NoError(t, svc.InvalidateOverview(context.Background()))
}

func TestAnalyticsServiceOverviewRecordsCacheMetrics(t *testing.T) {
	metrics := &mockCacheMetrics{}
	svc := NewAnalyticsService(&mockAnalyticsRepo{}, &mockAnalyticsInstruments{}, &mockAnalyticsResults{}, &mockAnalyticsCache{}, metrics, time.Minute, zap.NewNop())

	_, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.misses)
	assert.Zero(t, metrics.hits)

	_, err = svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestAnalyticsServiceInstrumentStatsNotFound(t *testing.T) {
	svc := NewAnalyticsService(&mockAnalyticsRepo{}, &mockAnalyticsInstruments{}, &mockAnalyticsResults{}, nil, nil, time.Minute, zap.NewNop())

	_, err := svc.InstrumentStats(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestComputeIndicatorStats(t *testing.T) {
	cutoff := 5.0
	indicator := models.ScreeningIndicator{ID: "ind-1", Nome: "Fluencia", PontoCorte: &cutoff}
	results := []models.ScreeningResult{
		{Valor: 2}, {Valor: 4}, {Valor: 6}, {Valor: 8},
	}

	stats := computeIndicatorStats(indicator, results)
	assert.Equal(t, 4, stats.Count)
	assert.InDelta(t, 5.0, stats.Mean, 1e-9)
	assert.InDelta(t, 2.2360679, stats.StdDev, 1e-6)
	assert.Equal(t, 2.0, stats.Min)
	assert.Equal(t, 8.0, stats.Max)
	assert.InDelta(t, 50.0, stats.PctAboveCutoff, 1e-9)
	assert.InDelta(t, 2.0, stats.TrendSlope, 1e-9)
}

func TestComputeIndicatorStatsNoCutoff(t *testing.T) {
	indicator := models.ScreeningIndicator{ID: "ind-1"}
	stats := computeIndicatorStats(indicator, []models.ScreeningResult{{Valor: 3}, {Valor: 3}})
	assert.Zero(t, stats.PctAboveCutoff)
	assert.Zero(t, stats.StdDev)
	assert.Zero(t, stats.TrendSlope)
}

func TestComputeIndicatorStatsEmpty(t *testing.T) {
	stats := computeIndicatorStats(models.ScreeningIndicator{ID: "ind-1"}, nil)
	assert.Zero(t, stats.Count)
	assert.Zero(t, stats.Mean)
}

func TestTrendSlopeSingleValue(t *testing.T) {
	assert.Zero(t, trendSlope([]models.ScreeningResult{{Valor: 10}}))
}
