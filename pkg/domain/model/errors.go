package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrInvalidSeries   = goerr.New("invalid KPI series")
	ErrDuplicateMetric = goerr.New("duplicate metric")
	ErrNilEntry        = goerr.New("list contains a null entry")
)

// Context keys for error values
const (
	MetricKey = "metric"
	RiskIDKey = "risk_id"
)
