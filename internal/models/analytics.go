package models

import "time"

// AnalyticsOverview summarises platform-wide counts for dashboards.
type AnalyticsOverview struct {
	Instruments        int                     `json:"instruments"`
	ActiveInstruments  int                     `json:"activeInstruments"`
	Screenings         int                     `json:"screenings"`
	ScreeningsByStatus map[ScreeningStatus]int `json:"screeningsByStatus"`
	InterventionPlans  int                     `json:"interventionPlans"`
	CalendarEvents     int                     `json:"calendarEvents"`
	GeneratedAt        time.Time               `json:"generatedAt"`
}

// IndicatorStats holds descriptive statistics for one indicator across results.
type IndicatorStats struct {
	IndicadorID    string  `json:"indicadorId"`
	Nome           string  `json:"nome"`
	Count          int     `json:"count"`
	Mean           float64 `json:"mean"`
	StdDev         float64 `json:"stdDev"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	TrendSlope     float64 `json:"trendSlope"`
	PctAboveCutoff float64 `json:"pctAboveCutoff"`
}

// InstrumentAnalytics aggregates per-indicator stats for an instrument.
type InstrumentAnalytics struct {
	InstrumentoID string           `json:"instrumentoId"`
	Nome          string           `json:"nome"`
	Indicadores   []IndicatorStats `json:"indicadores"`
	GeneratedAt   time.Time        `json:"generatedAt"`
}
