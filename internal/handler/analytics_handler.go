package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/innerview/innerview-api/internal/models"
	"github.com/innerview/innerview-api/pkg/response"
)

type analyticsService interface {
	Overview(ctx context.Context) (*models.AnalyticsOverview, error)
	InstrumentStats(ctx context.Context, instrumentID string) (*models.InstrumentAnalytics, error)
}

// AnalyticsHandler exposes dashboard aggregate endpoints.
type AnalyticsHandler struct {
	service analyticsService
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(service analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Overview godoc
// @Summary Platform overview
// @Description Aggregated counts across instruments, screenings, plans and events
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// InstrumentStats godoc
// @Summary Instrument statistics
// @Description Per-indicator descriptive statistics across all recorded results
// @Tags Analytics
// @Produce json
// @Param id path string true "Instrument ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /analytics/instruments/{id} [get]
func (h *AnalyticsHandler) InstrumentStats(c *gin.Context) {
	stats, err := h.service.InstrumentStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
