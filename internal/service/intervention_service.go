package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/innerview/innerview-api/internal/dto"
	"github.com/innerview/innerview-api/internal/models"
	appErrors "github.com/innerview/innerview-api/pkg/errors"
)

type interventionRepository interface {
	ListPlans(ctx context.Context, filter models.PlanFilter) ([]models.InterventionPlan, int, error)
	GetPlan(ctx context.Context, id string) (*models.InterventionPlan, error)
	ListGoals(ctx context.Context, planID string) ([]models.InterventionGoal, error)
	CreatePlan(ctx context.Context, plan *models.InterventionPlan) error
	UpdatePlan(ctx context.Context, plan *models.InterventionPlan) error
	DeletePlan(ctx context.Context, id string) error
	GetGoal(ctx context.Context, id string) (*models.InterventionGoal, error)
	CreateGoal(ctx context.Context, goal *models.InterventionGoal) error
	UpdateGoal(ctx context.Context, goal *models.InterventionGoal) error
	DeleteGoal(ctx context.Context, id string) error
}

// InterventionService manages tiered intervention plans and their goals.
type InterventionService struct {
	repo        interventionRepository
	validator   *validator.Validate
	logger      *zap.Logger
	invalidator overviewInvalidator
}

// NewInterventionService constructs the service.
func NewInterventionService(repo interventionRepository, validate *validator.Validate, logger *zap.Logger, invalidator overviewInvalidator) *InterventionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &InterventionService{repo: repo, validator: validate, logger: logger, invalidator: invalidator}
	registerEnumValidation(svc.validator, "plan_status", string(models.PlanActive), string(models.PlanCompleted), string(models.PlanCancelled))
	registerEnumValidation(svc.validator, "goal_status", string(models.GoalInProgress), string(models.GoalAchieved), string(models.GoalNotAchieved))
	return svc
}

// PlanListRequest describes filters for listing plans.
type PlanListRequest struct {
	EstudanteID string
	Status      string
	Page        int
	PageSize    int
}

// ListPlans returns plans matching the filter.
func (s *InterventionService) ListPlans(ctx context.Context, req PlanListRequest) ([]models.InterventionPlan, *models.Pagination, error) {
	filter := models.PlanFilter{
		EstudanteID: req.EstudanteID,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	if req.Status != "" {
		status := models.PlanStatus(req.Status)
		filter.Status = &status
	}
	plans, total, err := s.repo.ListPlans(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plans")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return plans, pagination, nil
}

// GetPlan returns one plan with its goals attached.
func (s *InterventionService) GetPlan(ctx context.Context, id string) (*models.InterventionPlan, error) {
	plan, err := s.repo.GetPlan(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get plan")
	}
	goals, err := s.repo.ListGoals(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load goals")
	}
	plan.Metas = goals
	return plan, nil
}

// CreatePlan opens a plan for a student.
func (s *InterventionService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest, responsibleID string) (*models.InterventionPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan payload")
	}
	if req.Fim != nil && req.Fim.Before(req.Inicio) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fim must be on or after inicio")
	}
	plan := &models.InterventionPlan{
		EstudanteID:   req.EstudanteID,
		ResponsavelID: responsibleID,
		Titulo:        req.Titulo,
		Descricao:     req.Descricao,
		Nivel:         req.Nivel,
		Status:        models.PlanActive,
		Inicio:        req.Inicio,
		Fim:           req.Fim,
	}
	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create plan")
	}
	s.invalidateOverview(ctx)
	return plan, nil
}

// UpdatePlan applies a partial update to a plan.
func (s *InterventionService) UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*models.InterventionPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan payload")
	}
	plan, err := s.repo.GetPlan(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	if req.Titulo != nil {
		plan.Titulo = *req.Titulo
	}
	if req.Descricao != nil {
		plan.Descricao = req.Descricao
	}
	if req.Nivel != nil {
		plan.Nivel = *req.Nivel
	}
	if req.Status != nil {
		plan.Status = models.PlanStatus(*req.Status)
	}
	if req.Fim != nil {
		plan.Fim = req.Fim
	}
	if plan.Fim != nil && plan.Fim.Before(plan.Inicio) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fim must be on or after inicio")
	}
	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update plan")
	}
	s.invalidateOverview(ctx)
	return plan, nil
}

// DeletePlan removes a plan and all of its goals.
func (s *InterventionService) DeletePlan(ctx context.Context, id string) error {
	if _, err := s.repo.GetPlan(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	if err := s.repo.DeletePlan(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete plan")
	}
	s.invalidateOverview(ctx)
	return nil
}

// AddGoal attaches a goal to a plan.
func (s *InterventionService) AddGoal(ctx context.Context, planID string, req dto.CreateGoalRequest) (*models.InterventionGoal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid goal payload")
	}
	if _, err := s.repo.GetPlan(ctx, planID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	goal := &models.InterventionGoal{
		PlanoID:   planID,
		Titulo:    req.Titulo,
		Descricao: req.Descricao,
		ValorAlvo: req.ValorAlvo,
		Prazo:     req.Prazo,
		Status:    models.GoalInProgress,
	}
	if err := s.repo.CreateGoal(ctx, goal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create goal")
	}
	return goal, nil
}

// UpdateGoal applies a partial update to a goal of a plan.
func (s *InterventionService) UpdateGoal(ctx context.Context, planID, goalID string, req dto.UpdateGoalRequest) (*models.InterventionGoal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid goal payload")
	}
	goal, err := s.getOwnedGoal(ctx, planID, goalID)
	if err != nil {
		return nil, err
	}
	if req.Titulo != nil {
		goal.Titulo = *req.Titulo
	}
	if req.Descricao != nil {
		goal.Descricao = req.Descricao
	}
	if req.ValorAlvo != nil {
		goal.ValorAlvo = *req.ValorAlvo
	}
	if req.Prazo != nil {
		goal.Prazo = req.Prazo
	}
	if req.Status != nil {
		goal.Status = models.GoalStatus(*req.Status)
	}
	if err := s.repo.UpdateGoal(ctx, goal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update goal")
	}
	return goal, nil
}

// RecordGoalProgress stores the latest measured value. Reaching the target
// marks the goal atingida; dropping back below reopens it.
func (s *InterventionService) RecordGoalProgress(ctx context.Context, planID, goalID string, req dto.GoalProgressRequest) (*models.InterventionGoal, error) {
	goal, err := s.getOwnedGoal(ctx, planID, goalID)
	if err != nil {
		return nil, err
	}
	goal.ValorAtual = req.ValorAtual
	if goal.Status != models.GoalNotAchieved {
		if goal.ValorAtual >= goal.ValorAlvo {
			goal.Status = models.GoalAchieved
		} else {
			goal.Status = models.GoalInProgress
		}
	}
	if err := s.repo.UpdateGoal(ctx, goal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record goal progress")
	}
	return goal, nil
}

// DeleteGoal removes a goal from a plan.
func (s *InterventionService) DeleteGoal(ctx context.Context, planID, goalID string) error {
	goal, err := s.getOwnedGoal(ctx, planID, goalID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteGoal(ctx, goal.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete goal")
	}
	return nil
}

func (s *InterventionService) getOwnedGoal(ctx context.Context, planID, goalID string) (*models.InterventionGoal, error) {
	goal, err := s.repo.GetGoal(ctx, goalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "goal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load goal")
	}
	if goal.PlanoID != planID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "goal does not belong to plan")
	}
	return goal, nil
}

func (s *InterventionService) invalidateOverview(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateOverview(ctx); err != nil {
		s.logger.Warn("failed to invalidate overview cache", zap.Error(err))
	}
}
