package models

import "time"

// PlanStatus tracks the lifecycle of an intervention plan.
type PlanStatus string

const (
	PlanActive    PlanStatus = "ativo"
	PlanCompleted PlanStatus = "concluido"
	PlanCancelled PlanStatus = "cancelado"
)

// GoalStatus tracks progress of an intervention goal.
type GoalStatus string

const (
	GoalInProgress  GoalStatus = "em_andamento"
	GoalAchieved    GoalStatus = "atingida"
	GoalNotAchieved GoalStatus = "nao_atingida"
)

// InterventionPlan is a tiered support plan for a student.
type InterventionPlan struct {
	ID            string     `db:"id" json:"id"`
	EstudanteID   string     `db:"estudante_id" json:"estudanteId"`
	ResponsavelID string     `db:"responsavel_id" json:"responsavelId"`
	Titulo        string     `db:"titulo" json:"titulo"`
	Descricao     *string    `db:"descricao" json:"descricao,omitempty"`
	Nivel         int        `db:"nivel" json:"nivel"`
	Status        PlanStatus `db:"status" json:"status"`
	Inicio        time.Time  `db:"inicio" json:"inicio"`
	Fim           *time.Time `db:"fim" json:"fim,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`

	Metas []InterventionGoal `db:"-" json:"metas,omitempty"`
}

// InterventionGoal is a measurable target attached to a plan.
type InterventionGoal struct {
	ID         string     `db:"id" json:"id"`
	PlanoID    string     `db:"plano_id" json:"planoId"`
	Titulo     string     `db:"titulo" json:"titulo"`
	Descricao  *string    `db:"descricao" json:"descricao,omitempty"`
	ValorAlvo  float64    `db:"valor_alvo" json:"valorAlvo"`
	ValorAtual float64    `db:"valor_atual" json:"valorAtual"`
	Prazo      *time.Time `db:"prazo" json:"prazo,omitempty"`
	Status     GoalStatus `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
}

// PlanFilter narrows down intervention plan listings.
type PlanFilter struct {
	EstudanteID string
	Status      *PlanStatus
	Page        int
	PageSize    int
}
