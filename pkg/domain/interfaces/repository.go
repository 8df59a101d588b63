package interfaces

import (
	"context"

	"github.com/secmon-lab/qaboard/pkg/domain/model"
)

// Repository defines the interface for data persistence
type Repository interface {
	KPI() KPIRepository
	Risk() RiskRepository
	Feedback() FeedbackRepository

	// Close releases the underlying client or connection
	Close() error
}

// KPIRepository stores KPI series and targets. Both are replaced wholesale.
type KPIRepository interface {
	GetSeries(ctx context.Context) (model.KPISeries, error)
	PutSeries(ctx context.Context, series model.KPISeries) error
	GetTargets(ctx context.Context) (model.KPITargets, error)
	PutTargets(ctx context.Context, targets model.KPITargets) error
}
