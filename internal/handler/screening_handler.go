package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/innerview/innerview-api/internal/dto"
	"github.com/innerview/innerview-api/internal/models"
	"github.com/innerview/innerview-api/internal/service"
	appErrors "github.com/innerview/innerview-api/pkg/errors"
	"github.com/innerview/innerview-api/pkg/response"
)

type screeningService interface {
	List(ctx context.Context, req service.ScreeningListRequest) ([]models.Screening, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Screening, error)
	Create(ctx context.Context, req dto.CreateScreeningRequest, applicatorID string) (*models.Screening, error)
	Update(ctx context.Context, id string, req dto.UpdateScreeningRequest) (*models.Screening, error)
	Delete(ctx context.Context, id string) error
}

type batchResultService interface {
	RegisterBatch(ctx context.Context, screeningID string, req dto.BatchResultsRequest) ([]models.ScreeningResult, error)
}

// ScreeningHandler exposes screening endpoints.
type ScreeningHandler struct {
	service screeningService
	results batchResultService
}

// NewScreeningHandler constructs the handler.
func NewScreeningHandler(service screeningService, results batchResultService) *ScreeningHandler {
	return &ScreeningHandler{service: service, results: results}
}

// List godoc
// @Summary List screenings
// @Tags Screenings
// @Produce json
// @Param estudanteId query string false "Student ID"
// @Param instrumentoId query string false "Instrument ID"
// @Param status query string false "Screening status"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /screenings [get]
func (h *ScreeningHandler) List(c *gin.Context) {
	req := service.ScreeningListRequest{
		EstudanteID:   c.Query("estudanteId"),
		InstrumentoID: c.Query("instrumentoId"),
		Status:        c.Query("status"),
		Page:          queryInt(c, "page", 1),
		PageSize:      queryInt(c, "pageSize", 50),
	}
	screenings, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, screenings, pagination)
}

// Get godoc
// @Summary Get screening
// @Tags Screenings
// @Produce json
// @Param id path string true "Screening ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screenings/{id} [get]
func (h *ScreeningHandler) Get(c *gin.Context) {
	screening, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, screening, nil)
}

// Create godoc
// @Summary Create screening
// @Tags Screenings
// @Accept json
// @Produce json
// @Param payload body dto.CreateScreeningRequest true "Screening payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /screenings [post]
func (h *ScreeningHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateScreeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid screening payload"))
		return
	}
	screening, err := h.service.Create(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, screening)
}

// Update godoc
// @Summary Update screening
// @Tags Screenings
// @Accept json
// @Produce json
// @Param id path string true "Screening ID"
// @Param payload body dto.UpdateScreeningRequest true "Partial screening payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screenings/{id} [patch]
func (h *ScreeningHandler) Update(c *gin.Context) {
	var req dto.UpdateScreeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid screening payload"))
		return
	}
	screening, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, screening, nil)
}

// Delete godoc
// @Summary Delete screening
// @Description Screenings with recorded results cannot be removed
// @Tags Screenings
// @Param id path string true "Screening ID"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /screenings/{id} [delete]
func (h *ScreeningHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RegisterBatch godoc
// @Summary Register results in batch
// @Description Upsert several results for the screening atomically
// @Tags Screenings
// @Accept json
// @Produce json
// @Param id path string true "Screening ID"
// @Param payload body dto.BatchResultsRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screenings/{id}/results/batch [post]
func (h *ScreeningHandler) RegisterBatch(c *gin.Context) {
	var req dto.BatchResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid batch payload"))
		return
	}
	results, err := h.results.RegisterBatch(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}
