package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/innerview/innerview-api/internal/models"
	appErrors "github.com/innerview/innerview-api/pkg/errors"
	"github.com/innerview/innerview-api/pkg/export"
)

// ReportFormat selects the rendered output type.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ReportFile is a rendered export ready for download.
type ReportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

type reportScreeningLookup interface {
	GetByID(ctx context.Context, id string) (*models.Screening, error)
}

type reportResultLister interface {
	ListByScreening(ctx context.Context, screeningID string) ([]models.ScreeningResult, error)
}

type reportIndicatorLookup interface {
	ListIndicators(ctx context.Context, instrumentID string) ([]models.ScreeningIndicator, error)
}

type reportInstrumentLookup interface {
	GetByID(ctx context.Context, id string) (*models.ScreeningInstrument, error)
}

// ReportService renders screening results as downloadable files.
type ReportService struct {
	screenings  reportScreeningLookup
	results     reportResultLister
	indicators  reportIndicatorLookup
	instruments reportInstrumentLookup
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(screenings reportScreeningLookup, results reportResultLister, indicators reportIndicatorLookup, instruments reportInstrumentLookup, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		screenings:  screenings,
		results:     results,
		indicators:  indicators,
		instruments: instruments,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// ScreeningResults renders the results of one screening in the requested
// format.
func (s *ReportService) ScreeningResults(ctx context.Context, screeningID string, format ReportFormat) (*ReportFile, error) {
	if format != ReportFormatCSV && format != ReportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	screening, err := s.screenings.GetByID(ctx, screeningID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "screening not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load screening")
	}
	instrument, err := s.instruments.GetByID(ctx, screening.InstrumentoID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instrument")
	}
	indicators, err := s.indicators.ListIndicators(ctx, screening.InstrumentoID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load indicators")
	}
	results, err := s.results.ListByScreening(ctx, screeningID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results")
	}

	indicatorNames := make(map[string]string, len(indicators))
	for _, indicator := range indicators {
		indicatorNames[indicator.ID] = indicator.Nome
	}

	dataset := export.Dataset{
		Headers: []string{"Indicador", "Valor", "Nivel de Risco", "Observacoes"},
		Rows:    make([]map[string]string, 0, len(results)),
	}
	for _, result := range results {
		risk := ""
		if result.NivelRisco != nil {
			risk = string(*result.NivelRisco)
		}
		notes := ""
		if result.Observacoes != nil {
			notes = *result.Observacoes
		}
		name := indicatorNames[result.IndicadorID]
		if name == "" {
			name = result.IndicadorID
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Indicador":      name,
			"Valor":          strconv.FormatFloat(result.Valor, 'f', -1, 64),
			"Nivel de Risco": risk,
			"Observacoes":    notes,
		})
	}

	title := "Resultados de Rastreio"
	if instrument != nil {
		title = fmt.Sprintf("Resultados de Rastreio - %s", instrument.Nome)
	}

	switch format {
	case ReportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ReportFile{
			Content:     content,
			ContentType: "text/csv",
			Filename:    reportFilename(screeningID, "csv"),
		}, nil
	default:
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ReportFile{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    reportFilename(screeningID, "pdf"),
		}, nil
	}
}

func reportFilename(screeningID, ext string) string {
	short := screeningID
	if idx := strings.Index(short, "-"); idx > 0 {
		short = short[:idx]
	}
	return fmt.Sprintf("rastreio-%s-resultados.%s", short, ext)
}
