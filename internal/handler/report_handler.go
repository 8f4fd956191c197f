package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/innerview/innerview-api/internal/service"
	"github.com/innerview/innerview-api/pkg/response"
)

type reportService interface {
	ScreeningResults(ctx context.Context, screeningID string, format service.ReportFormat) (*service.ReportFile, error)
}

// ReportHandler exposes file export endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// ExportScreening godoc
// @Summary Export screening results
// @Description Download a screening's results as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Screening ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /reports/screenings/{id}/export [get]
func (h *ReportHandler) ExportScreening(c *gin.Context) {
	format := service.ReportFormat(c.DefaultQuery("format", "csv"))
	file, err := h.service.ScreeningResults(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
