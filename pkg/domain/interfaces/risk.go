package interfaces

import (
	"context"

	"github.com/secmon-lab/qaboard/pkg/domain/model"
)

type RiskRepository interface {
	// List retrieves all risks in submission order
	List(ctx context.Context) ([]*model.Risk, error)

	// ListPredefined retrieves the remaining catalog entries in catalog order
	ListPredefined(ctx context.Context) ([]*model.PredefinedRisk, error)

	// PutPredefined replaces the catalog
	PutPredefined(ctx context.Context, catalog []*model.PredefinedRisk) error

	// Promote appends the risk and removes the catalog entry with the same ID in one step.
	// It fails with ErrAlreadyExists when a risk with the ID is already in the matrix.
	Promote(ctx context.Context, risk *model.Risk) (*model.Risk, error)
}
