package interfaces

import (
	"context"

	"github.com/secmon-lab/qaboard/pkg/domain/model"
)

// RiskNotifier announces risks entering the matrix
type RiskNotifier interface {
	NotifyRiskAdded(ctx context.Context, risk *model.Risk) error
}
