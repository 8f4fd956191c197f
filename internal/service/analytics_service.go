package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/innerview/innerview-api/internal/models"
	appErrors "github.com/innerview/innerview-api/pkg/errors"
)

const (
	overviewCacheKey     = "analytics:overview"
	overviewCachePattern = "analytics:*"
)

type analyticsRepository interface {
	CountInstruments(ctx context.Context) (total int, active int, err error)
	CountScreeningsByStatus(ctx context.Context) (map[models.ScreeningStatus]int, int, error)
	CountPlans(ctx context.Context) (int, error)
	CountEvents(ctx context.Context) (int, error)
}

type analyticsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheMetrics interface {
	RecordCacheOperation(hit bool)
}

type analyticsInstrumentLookup interface {
	GetByID(ctx context.Context, id string) (*models.ScreeningInstrument, error)
	ListIndicators(ctx context.Context, instrumentID string) ([]models.ScreeningIndicator, error)
}

type analyticsResultLister interface {
	ListByIndicator(ctx context.Context, indicatorID string) ([]models.ScreeningResult, error)
}

// AnalyticsService computes dashboard aggregates. The overview is served from
// Redis and recomputed only after the TTL lapses or a write invalidates it.
type AnalyticsService struct {
	repo        analyticsRepository
	instruments analyticsInstrumentLookup
	results     analyticsResultLister
	cache       analyticsCache
	metrics     cacheMetrics
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(repo analyticsRepository, instruments analyticsInstrumentLookup, results analyticsResultLister, cache analyticsCache, metrics cacheMetrics, cacheTTL time.Duration, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &AnalyticsService{repo: repo, instruments: instruments, results: results, cache: cache, metrics: metrics, cacheTTL: cacheTTL, logger: logger}
}

// Overview returns platform-wide counts, cached.
func (s *AnalyticsService) Overview(ctx context.Context) (*models.AnalyticsOverview, error) {
	if s.cache != nil {
		var cached models.AnalyticsOverview
		err := s.cache.Get(ctx, overviewCacheKey, &cached)
		if err == nil {
			s.recordCacheRead(true)
			return &cached, nil
		}
		s.recordCacheRead(false)
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("overview cache read failed", zap.Error(err))
		}
	}

	totalInstruments, activeInstruments, err := s.repo.CountInstruments(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count instruments")
	}
	byStatus, totalScreenings, err := s.repo.CountScreeningsByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count screenings")
	}
	plans, err := s.repo.CountPlans(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count plans")
	}
	events, err := s.repo.CountEvents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count events")
	}

	overview := &models.AnalyticsOverview{
		Instruments:        totalInstruments,
		ActiveInstruments:  activeInstruments,
		Screenings:         totalScreenings,
		ScreeningsByStatus: byStatus,
		InterventionPlans:  plans,
		CalendarEvents:     events,
		GeneratedAt:        time.Now().UTC(),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, overviewCacheKey, overview, s.cacheTTL); err != nil {
			s.logger.Warn("overview cache write failed", zap.Error(err))
		}
	}
	return overview, nil
}

// InstrumentStats returns descriptive statistics per indicator of an
// instrument across every recorded result.
func (s *AnalyticsService) InstrumentStats(ctx context.Context, instrumentID string) (*models.InstrumentAnalytics, error) {
	instrument, err := s.instruments.GetByID(ctx, instrumentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instrument not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instrument")
	}
	indicators, err := s.instruments.ListIndicators(ctx, instrumentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load indicators")
	}

	analytics := &models.InstrumentAnalytics{
		InstrumentoID: instrument.ID,
		Nome:          instrument.Nome,
		Indicadores:   make([]models.IndicatorStats, 0, len(indicators)),
		GeneratedAt:   time.Now().UTC(),
	}
	for _, indicator := range indicators {
		results, err := s.results.ListByIndicator(ctx, indicator.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results")
		}
		analytics.Indicadores = append(analytics.Indicadores, computeIndicatorStats(indicator, results))
	}
	return analytics, nil
}

// InvalidateOverview drops cached analytics entries after a write. Safe on a
// nil receiver so writers can hold a disabled analytics service.
func (s *AnalyticsService) InvalidateOverview(ctx context.Context) error {
	if s == nil || s.cache == nil {
		return nil
	}
	return s.cache.DeleteByPattern(ctx, overviewCachePattern)
}

func (s *AnalyticsService) recordCacheRead(hit bool) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordCacheOperation(hit)
}

func computeIndicatorStats(indicator models.ScreeningIndicator, results []models.ScreeningResult) models.IndicatorStats {
	stats := models.IndicatorStats{
		IndicadorID: indicator.ID,
		Nome:        indicator.Nome,
		Count:       len(results),
	}
	if len(results) == 0 {
		return stats
	}

	sum := 0.0
	stats.Min = results[0].Valor
	stats.Max = results[0].Valor
	aboveCutoff := 0
	for _, result := range results {
		sum += result.Valor
		if result.Valor < stats.Min {
			stats.Min = result.Valor
		}
		if result.Valor > stats.Max {
			stats.Max = result.Valor
		}
		if indicator.PontoCorte != nil && result.Valor >= *indicator.PontoCorte {
			aboveCutoff++
		}
	}
	n := float64(len(results))
	stats.Mean = sum / n

	variance := 0.0
	for _, result := range results {
		diff := result.Valor - stats.Mean
		variance += diff * diff
	}
	stats.StdDev = math.Sqrt(variance / n)

	if indicator.PontoCorte != nil {
		stats.PctAboveCutoff = float64(aboveCutoff) / n * 100
	}
	stats.TrendSlope = trendSlope(results)
	return stats
}

// trendSlope fits a least-squares line over values in recording order. The x
// axis is the result index, so the slope reads as change per screening.
func trendSlope(results []models.ScreeningResult) float64 {
	n := float64(len(results))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, result := range results {
		x := float64(i)
		sumX += x
		sumY += result.Valor
		sumXY += x * result.Valor
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}
