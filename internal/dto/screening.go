package dto

import "time"

// CreateInstrumentRequest creates a screening instrument, optionally with
// inline indicators.
type CreateInstrumentRequest struct {
	Nome           string                   `json:"nome" validate:"required"`
	Descricao      string                   `json:"descricao" validate:"required"`
	Categoria      string                   `json:"categoria" validate:"required,instrument_category"`
	FaixaEtaria    string                   `json:"faixaEtaria" validate:"required"`
	TempoAplicacao string                   `json:"tempoAplicacao" validate:"required"`
	Instrucoes     string                   `json:"instrucoes" validate:"required"`
	Indicadores    []CreateIndicatorRequest `json:"indicadores" validate:"omitempty,dive"`
}

// UpdateInstrumentRequest partially updates an instrument.
type UpdateInstrumentRequest struct {
	Nome           *string `json:"nome"`
	Descricao      *string `json:"descricao"`
	Categoria      *string `json:"categoria" validate:"omitempty,instrument_category"`
	FaixaEtaria    *string `json:"faixaEtaria"`
	TempoAplicacao *string `json:"tempoAplicacao"`
	Instrucoes     *string `json:"instrucoes"`
	Ativo          *bool   `json:"ativo"`
}

// CreateIndicatorRequest adds an indicator to an instrument.
type CreateIndicatorRequest struct {
	Nome        string   `json:"nome" validate:"required"`
	Descricao   string   `json:"descricao" validate:"required"`
	Tipo        string   `json:"tipo" validate:"required,indicator_type"`
	ValorMinimo float64  `json:"valorMinimo"`
	ValorMaximo float64  `json:"valorMaximo"`
	PontoCorte  *float64 `json:"pontoCorte"`
}

// UpdateIndicatorRequest partially updates an indicator.
type UpdateIndicatorRequest struct {
	Nome        *string  `json:"nome"`
	Descricao   *string  `json:"descricao"`
	Tipo        *string  `json:"tipo" validate:"omitempty,indicator_type"`
	ValorMinimo *float64 `json:"valorMinimo"`
	ValorMaximo *float64 `json:"valorMaximo"`
	PontoCorte  *float64 `json:"pontoCorte"`
}

// CreateScreeningRequest registers an instrument application for a student.
type CreateScreeningRequest struct {
	InstrumentoID string    `json:"instrumentoId" validate:"required,uuid4"`
	EstudanteID   string    `json:"estudanteId" validate:"required,uuid4"`
	DataAplicacao time.Time `json:"dataAplicacao" validate:"required"`
	Observacoes   *string   `json:"observacoes"`
}

// UpdateScreeningRequest partially updates a screening.
type UpdateScreeningRequest struct {
	Status        *string    `json:"status" validate:"omitempty,screening_status"`
	DataAplicacao *time.Time `json:"dataAplicacao"`
	Observacoes   *string    `json:"observacoes"`
}

// CreateResultRequest registers one indicator value for a screening.
type CreateResultRequest struct {
	RastreioID  string  `json:"rastreioId" validate:"required,uuid4"`
	IndicadorID string  `json:"indicadorId" validate:"required,uuid4"`
	Valor       float64 `json:"valor"`
	NivelRisco  *string `json:"nivelRisco" validate:"omitempty,risk_level"`
	Observacoes *string `json:"observacoes"`
}

// UpdateResultRequest partially updates a stored result.
type UpdateResultRequest struct {
	Valor       *float64 `json:"valor"`
	NivelRisco  *string  `json:"nivelRisco" validate:"omitempty,risk_level"`
	Observacoes *string  `json:"observacoes"`
}

// BatchResultItem is one entry of a batch registration.
type BatchResultItem struct {
	IndicadorID string  `json:"indicadorId" validate:"required,uuid4"`
	Valor       float64 `json:"valor"`
	NivelRisco  *string `json:"nivelRisco" validate:"omitempty,risk_level"`
	Observacoes *string `json:"observacoes"`
}

// BatchResultsRequest registers several results for one screening atomically.
type BatchResultsRequest struct {
	Resultados []BatchResultItem `json:"resultados" validate:"required,min=1,dive"`
}
