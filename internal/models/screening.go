package models

import "time"

// InstrumentCategory groups screening instruments by domain.
type InstrumentCategory string

const (
	CategoryAcademic       InstrumentCategory = "academico"
	CategoryBehavioral     InstrumentCategory = "comportamental"
	CategorySocioEmotional InstrumentCategory = "socioemocional"
	CategorySpeechLanguage InstrumentCategory = "fonoaudiologico"
)

// IndicatorType describes how an indicator is scored.
type IndicatorType string

const (
	IndicatorNumeric     IndicatorType = "numerico"
	IndicatorLikertScale IndicatorType = "escala_likert"
	IndicatorYesNo       IndicatorType = "sim_nao"
)

// ScreeningStatus tracks the lifecycle of a screening application.
type ScreeningStatus string

const (
	ScreeningPending    ScreeningStatus = "PENDENTE"
	ScreeningInProgress ScreeningStatus = "EM_ANDAMENTO"
	ScreeningCompleted  ScreeningStatus = "CONCLUIDO"
)

// RiskLevel classifies a result against the indicator cutoff.
type RiskLevel string

const (
	RiskLow      RiskLevel = "BAIXO"
	RiskModerate RiskLevel = "MODERADO"
	RiskHigh     RiskLevel = "ALTO"
)

// ScreeningInstrument is a reusable assessment applied to students.
type ScreeningInstrument struct {
	ID             string             `db:"id" json:"id"`
	Nome           string             `db:"nome" json:"nome"`
	Descricao      string             `db:"descricao" json:"descricao"`
	Categoria      InstrumentCategory `db:"categoria" json:"categoria"`
	FaixaEtaria    string             `db:"faixa_etaria" json:"faixaEtaria"`
	TempoAplicacao string             `db:"tempo_aplicacao" json:"tempoAplicacao"`
	Instrucoes     string             `db:"instrucoes" json:"instrucoes"`
	Ativo          bool               `db:"ativo" json:"ativo"`
	CreatedAt      time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `db:"updated_at" json:"updatedAt"`

	Indicadores []ScreeningIndicator `db:"-" json:"indicadores,omitempty"`
}

// ScreeningIndicator is a single measured dimension of an instrument.
type ScreeningIndicator struct {
	ID            string        `db:"id" json:"id"`
	InstrumentoID string        `db:"instrumento_id" json:"instrumentoId"`
	Nome          string        `db:"nome" json:"nome"`
	Descricao     string        `db:"descricao" json:"descricao"`
	Tipo          IndicatorType `db:"tipo" json:"tipo"`
	ValorMinimo   float64       `db:"valor_minimo" json:"valorMinimo"`
	ValorMaximo   float64       `db:"valor_maximo" json:"valorMaximo"`
	PontoCorte    *float64      `db:"ponto_corte" json:"pontoCorte,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updatedAt"`
}

// Screening is one application of an instrument to a student.
type Screening struct {
	ID            string          `db:"id" json:"id"`
	InstrumentoID string          `db:"instrumento_id" json:"instrumentoId"`
	EstudanteID   string          `db:"estudante_id" json:"estudanteId"`
	AplicadorID   string          `db:"aplicador_id" json:"aplicadorId"`
	Status        ScreeningStatus `db:"status" json:"status"`
	DataAplicacao time.Time       `db:"data_aplicacao" json:"dataAplicacao"`
	Observacoes   *string         `db:"observacoes" json:"observacoes,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`

	Resultados []ScreeningResult `db:"-" json:"resultados,omitempty"`
}

// ScreeningResult stores the measured value for one indicator of a screening.
// At most one row exists per (rastreio, indicador) pair.
type ScreeningResult struct {
	ID          string     `db:"id" json:"id"`
	RastreioID  string     `db:"rastreio_id" json:"rastreioId"`
	IndicadorID string     `db:"indicador_id" json:"indicadorId"`
	Valor       float64    `db:"valor" json:"valor"`
	NivelRisco  *RiskLevel `db:"nivel_risco" json:"nivelRisco,omitempty"`
	Observacoes *string    `db:"observacoes" json:"observacoes,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// ScreeningFilter narrows down screening listings.
type ScreeningFilter struct {
	EstudanteID   string
	InstrumentoID string
	Status        *ScreeningStatus
	Page          int
	PageSize      int
}
