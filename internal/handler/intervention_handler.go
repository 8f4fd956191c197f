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

type interventionService interface {
	ListPlans(ctx context.Context, req service.PlanListRequest) ([]models.InterventionPlan, *models.Pagination, error)
	GetPlan(ctx context.Context, id string) (*models.InterventionPlan, error)
	CreatePlan(ctx context.Context, req dto.CreatePlanRequest, responsibleID string) (*models.InterventionPlan, error)
	UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*models.InterventionPlan, error)
	DeletePlan(ctx context.Context, id string) error
	AddGoal(ctx context.Context, planID string, req dto.CreateGoalRequest) (*models.InterventionGoal, error)
	UpdateGoal(ctx context.Context, planID, goalID string, req dto.UpdateGoalRequest) (*models.InterventionGoal, error)
	RecordGoalProgress(ctx context.Context, planID, goalID string, req dto.GoalProgressRequest) (*models.InterventionGoal, error)
	DeleteGoal(ctx context.Context, planID, goalID string) error
}

// InterventionHandler exposes intervention plan and goal endpoints.
type InterventionHandler struct {
	service interventionService
}

// NewInterventionHandler constructs the handler.
func NewInterventionHandler(service interventionService) *InterventionHandler {
	return &InterventionHandler{service: service}
}

// ListPlans godoc
// @Summary List intervention plans
// @Tags Interventions
// @Produce json
// @Param estudanteId query string false "Student ID"
// @Param status query string false "Plan status"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /intervention-plans [get]
func (h *InterventionHandler) ListPlans(c *gin.Context) {
	req := service.PlanListRequest{
		EstudanteID: c.Query("estudanteId"),
		Status:      c.Query("status"),
		Page:        queryInt(c, "page", 1),
		PageSize:    queryInt(c, "pageSize", 50),
	}
	plans, pagination, err := h.service.ListPlans(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, pagination)
}

// GetPlan godoc
// @Summary Get intervention plan
// @Tags Interventions
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /intervention-plans/{id} [get]
func (h *InterventionHandler) GetPlan(c *gin.Context) {
	plan, err := h.service.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// CreatePlan godoc
// @Summary Create intervention plan
// @Tags Interventions
// @Accept json
// @Produce json
// @Param payload body dto.CreatePlanRequest true "Plan payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /intervention-plans [post]
func (h *InterventionHandler) CreatePlan(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}
	plan, err := h.service.CreatePlan(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// UpdatePlan godoc
// @Summary Update intervention plan
// @Tags Interventions
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body dto.UpdatePlanRequest true "Partial plan payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /intervention-plans/{id} [patch]
func (h *InterventionHandler) UpdatePlan(c *gin.Context) {
	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}
	plan, err := h.service.UpdatePlan(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// DeletePlan godoc
// @Summary Delete intervention plan
// @Tags Interventions
// @Param id path string true "Plan ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /intervention-plans/{id} [delete]
func (h *InterventionHandler) DeletePlan(c *gin.Context) {
	if err := h.service.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddGoal godoc
// @Summary Add goal to plan
// @Tags Interventions
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body dto.CreateGoalRequest true "Goal payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /intervention-plans/{id}/goals [post]
func (h *InterventionHandler) AddGoal(c *gin.Context) {
	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid goal payload"))
		return
	}
	goal, err := h.service.AddGoal(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, goal)
}

// UpdateGoal godoc
// @Summary Update goal
// @Tags Interventions
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param goalId path string true "Goal ID"
// @Param payload body dto.UpdateGoalRequest true "Partial goal payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /intervention-plans/{id}/goals/{goalId} [patch]
func (h *InterventionHandler) UpdateGoal(c *gin.Context) {
	var req dto.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid goal payload"))
		return
	}
	goal, err := h.service.UpdateGoal(c.Request.Context(), c.Param("id"), c.Param("goalId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, goal, nil)
}

// RecordProgress godoc
// @Summary Record goal progress
// @Description Store the latest measured value for a goal
// @Tags Interventions
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param goalId path string true "Goal ID"
// @Param payload body dto.GoalProgressRequest true "Progress payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /intervention-plans/{id}/goals/{goalId}/progress [post]
func (h *InterventionHandler) RecordProgress(c *gin.Context) {
	var req dto.GoalProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid progress payload"))
		return
	}
	goal, err := h.service.RecordGoalProgress(c.Request.Context(), c.Param("id"), c.Param("goalId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, goal, nil)
}

// DeleteGoal godoc
// @Summary Delete goal
// @Tags Interventions
// @Param id path string true "Plan ID"
// @Param goalId path string true "Goal ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /intervention-plans/{id}/goals/{goalId} [delete]
func (h *InterventionHandler) DeleteGoal(c *gin.Context) {
	if err := h.service.DeleteGoal(c.Request.Context(), c.Param("id"), c.Param("goalId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
