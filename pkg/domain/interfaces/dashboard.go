package interfaces

import (
	"context"

	"github.com/secmon-lab/qaboard/pkg/domain/model"
)

// DashboardAPI is the backend surface the dashboard reads and mutates
type DashboardAPI interface {
	FetchKPISeries(ctx context.Context) (model.KPISeries, error)
	FetchKPITargets(ctx context.Context) (model.KPITargets, error)
	FetchRisks(ctx context.Context) ([]*model.Risk, error)
	FetchPredefinedRisks(ctx context.Context) ([]*model.PredefinedRisk, error)

	SubmitFeedback(ctx context.Context, feedback *model.Feedback) error
	SubmitRisk(ctx context.Context, risk *model.Risk) error
}

// MetricDefinitionSource provides the per-metric direction table
type MetricDefinitionSource interface {
	FetchMetricDefinitions(ctx context.Context) (model.MetricDefinitions, error)
}
