package dto

import "time"

// CreatePlanRequest opens an intervention plan for a student.
type CreatePlanRequest struct {
	EstudanteID string     `json:"estudanteId" validate:"required,uuid4"`
	Titulo      string     `json:"titulo" validate:"required"`
	Descricao   *string    `json:"descricao"`
	Nivel       int        `json:"nivel" validate:"required,min=1,max=3"`
	Inicio      time.Time  `json:"inicio" validate:"required"`
	Fim         *time.Time `json:"fim"`
}

// UpdatePlanRequest partially updates a plan.
type UpdatePlanRequest struct {
	Titulo    *string    `json:"titulo"`
	Descricao *string    `json:"descricao"`
	Nivel     *int       `json:"nivel" validate:"omitempty,min=1,max=3"`
	Status    *string    `json:"status" validate:"omitempty,plan_status"`
	Fim       *time.Time `json:"fim"`
}

// CreateGoalRequest attaches a measurable goal to a plan.
type CreateGoalRequest struct {
	Titulo    string     `json:"titulo" validate:"required"`
	Descricao *string    `json:"descricao"`
	ValorAlvo float64    `json:"valorAlvo" validate:"required"`
	Prazo     *time.Time `json:"prazo"`
}

// UpdateGoalRequest partially updates a goal.
type UpdateGoalRequest struct {
	Titulo    *string    `json:"titulo"`
	Descricao *string    `json:"descricao"`
	ValorAlvo *float64   `json:"valorAlvo"`
	Prazo     *time.Time `json:"prazo"`
	Status    *string    `json:"status" validate:"omitempty,goal_status"`
}

// GoalProgressRequest records the latest measured value for a goal.
type GoalProgressRequest struct {
	ValorAtual float64 `json:"valorAtual"`
}
