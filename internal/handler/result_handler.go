package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/innerview/innerview-api/internal/dto"
	"github.com/innerview/innerview-api/internal/models"
	appErrors "github.com/innerview/innerview-api/pkg/errors"
	"github.com/innerview/innerview-api/pkg/response"
)

type resultService interface {
	ListByScreening(ctx context.Context, screeningID string) ([]models.ScreeningResult, error)
	Create(ctx context.Context, req dto.CreateResultRequest) (*models.ScreeningResult, error)
	Update(ctx context.Context, id string, req dto.UpdateResultRequest) (*models.ScreeningResult, error)
	Delete(ctx context.Context, id string) error
}

// ResultHandler exposes screening result endpoints.
type ResultHandler struct {
	service resultService
}

// NewResultHandler constructs the handler.
func NewResultHandler(service resultService) *ResultHandler {
	return &ResultHandler{service: service}
}

// List godoc
// @Summary List results for a screening
// @Tags Results
// @Produce json
// @Param rastreioId query string true "Screening ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screening-results [get]
func (h *ResultHandler) List(c *gin.Context) {
	screeningID := c.Query("rastreioId")
	if screeningID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "rastreioId query parameter is required"))
		return
	}
	results, err := h.service.ListByScreening(c.Request.Context(), screeningID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// Create godoc
// @Summary Register result
// @Description Upsert the value for one (screening, indicator) pair
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body dto.CreateResultRequest true "Result payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screening-results [post]
func (h *ResultHandler) Create(c *gin.Context) {
	var req dto.CreateResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid result payload"))
		return
	}
	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update godoc
// @Summary Update result
// @Tags Results
// @Accept json
// @Produce json
// @Param id path string true "Result ID"
// @Param payload body dto.UpdateResultRequest true "Partial result payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screening-results/{id} [patch]
func (h *ResultHandler) Update(c *gin.Context) {
	var req dto.UpdateResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid result payload"))
		return
	}
	result, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete result
// @Tags Results
// @Param id path string true "Result ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screening-results/{id} [delete]
func (h *ResultHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
