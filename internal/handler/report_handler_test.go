package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/innerview/innerview-api/internal/service"
)

type reportServiceMock struct {
	format service.ReportFormat
}

func (m *reportServiceMock) ScreeningResults(ctx context.Context, screeningID string, format service.ReportFormat) (*service.ReportFile, error) {
	m.format = format
	return &service.ReportFile{
		Content:     []byte("Indicador,Valor\nFluencia,42.5\n"),
		ContentType: "text/csv",
		Filename:    "rastreio-" + screeningID + "-resultados.csv",
	}, nil
}

func TestReportHandlerExportScreening(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{}
	handler := NewReportHandler(mockSvc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/reports/screenings/scr-1/export?format=csv", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "scr-1"}}

	handler.ExportScreening(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, service.ReportFormatCSV, mockSvc.format)
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	require.Contains(t, w.Body.String(), "Fluencia")
}
