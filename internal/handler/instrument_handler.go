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

type instrumentService interface {
	List(ctx context.Context, includeInactive bool) ([]models.ScreeningInstrument, error)
	Get(ctx context.Context, id string) (*models.ScreeningInstrument, error)
	Create(ctx context.Context, req dto.CreateInstrumentRequest) (*models.ScreeningInstrument, error)
	Update(ctx context.Context, id string, req dto.UpdateInstrumentRequest) (*models.ScreeningInstrument, error)
	Delete(ctx context.Context, id string) error
	AddIndicator(ctx context.Context, instrumentID string, req dto.CreateIndicatorRequest) (*models.ScreeningIndicator, error)
	UpdateIndicator(ctx context.Context, instrumentID, indicatorID string, req dto.UpdateIndicatorRequest) (*models.ScreeningIndicator, error)
	DeleteIndicator(ctx context.Context, instrumentID, indicatorID string) error
}

// InstrumentHandler exposes screening instrument endpoints.
type InstrumentHandler struct {
	service instrumentService
}

// NewInstrumentHandler constructs the handler.
func NewInstrumentHandler(service instrumentService) *InstrumentHandler {
	return &InstrumentHandler{service: service}
}

// List godoc
// @Summary List screening instruments
// @Tags Instruments
// @Produce json
// @Param includeInactive query bool false "Include deactivated instruments"
// @Success 200 {object} response.Envelope
// @Router /screening-instruments [get]
func (h *InstrumentHandler) List(c *gin.Context) {
	includeInactive := c.Query("includeInactive") == "true"
	instruments, err := h.service.List(c.Request.Context(), includeInactive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instruments, nil)
}

// Get godoc
// @Summary Get screening instrument
// @Tags Instruments
// @Produce json
// @Param id path string true "Instrument ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screening-instruments/{id} [get]
func (h *InstrumentHandler) Get(c *gin.Context) {
	instrument, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instrument, nil)
}

// Create godoc
// @Summary Create screening instrument
// @Tags Instruments
// @Accept json
// @Produce json
// @Param payload body dto.CreateInstrumentRequest true "Instrument payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /screening-instruments [post]
func (h *InstrumentHandler) Create(c *gin.Context) {
	var req dto.CreateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid instrument payload"))
		return
	}
	instrument, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, instrument)
}

// Update godoc
// @Summary Update screening instrument
// @Tags Instruments
// @Accept json
// @Produce json
// @Param id path string true "Instrument ID"
// @Param payload body dto.UpdateInstrumentRequest true "Partial instrument payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screening-instruments/{id} [patch]
func (h *InstrumentHandler) Update(c *gin.Context) {
	var req dto.UpdateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid instrument payload"))
		return
	}
	instrument, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instrument, nil)
}

// Delete godoc
// @Summary Delete screening instrument
// @Description Instruments referenced by screenings are deactivated instead of removed
// @Tags Instruments
// @Param id path string true "Instrument ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screening-instruments/{id} [delete]
func (h *InstrumentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddIndicator godoc
// @Summary Add indicator to instrument
// @Tags Instruments
// @Accept json
// @Produce json
// @Param id path string true "Instrument ID"
// @Param payload body dto.CreateIndicatorRequest true "Indicator payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screening-instruments/{id}/indicators [post]
func (h *InstrumentHandler) AddIndicator(c *gin.Context) {
	var req dto.CreateIndicatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid indicator payload"))
		return
	}
	indicator, err := h.service.AddIndicator(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, indicator)
}

// UpdateIndicator godoc
// @Summary Update indicator
// @Tags Instruments
// @Accept json
// @Produce json
// @Param id path string true "Instrument ID"
// @Param indicatorId path string true "Indicator ID"
// @Param payload body dto.UpdateIndicatorRequest true "Partial indicator payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /screening-instruments/{id}/indicators/{indicatorId} [patch]
func (h *InstrumentHandler) UpdateIndicator(c *gin.Context) {
	var req dto.UpdateIndicatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid indicator payload"))
		return
	}
	indicator, err := h.service.UpdateIndicator(c.Request.Context(), c.Param("id"), c.Param("indicatorId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, indicator, nil)
}

// DeleteIndicator godoc
// @Summary Delete indicator
// @Description Indicators with recorded results cannot be removed
// @Tags Instruments
// @Param id path string true "Instrument ID"
// @Param indicatorId path string true "Indicator ID"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /screening-instruments/{id}/indicators/{indicatorId} [delete]
func (h *InstrumentHandler) DeleteIndicator(c *gin.Context) {
	if err := h.service.DeleteIndicator(c.Request.Context(), c.Param("id"), c.Param("indicatorId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
