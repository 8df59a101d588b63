package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
)

type riskRepository struct {
	mu         sync.RWMutex
	risks      []*model.Risk
	predefined []*model.PredefinedRisk
}

func newRiskRepository() *riskRepository {
	return &riskRepository{}
}

func (r *riskRepository) List(ctx context.Context) ([]*model.Risk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	risks := make([]*model.Risk, 0, len(r.risks))
	for _, risk := range r.risks {
		risks = append(risks, risk.Copy())
	}
	return risks, nil
}

func (r *riskRepository) ListPredefined(ctx context.Context) ([]*model.PredefinedRisk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	catalog := make([]*model.PredefinedRisk, 0, len(r.predefined))
	for _, p := range r.predefined {
		catalog = append(catalog, p.Copy())
	}
	return catalog, nil
}

func (r *riskRepository) PutPredefined(ctx context.Context, catalog []*model.PredefinedRisk) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.predefined = make([]*model.PredefinedRisk, 0, len(catalog))
	for _, p := range catalog {
		r.predefined = append(r.predefined, p.Copy())
	}
	return nil
}

func (r *riskRepository) Promote(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.risks {
		if existing.ID == risk.ID {
			return nil, goerr.Wrap(interfaces.ErrAlreadyExists, "risk already in matrix", goerr.V(model.RiskIDKey, risk.ID))
		}
	}

	created := risk.Copy()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	r.risks = append(r.risks, created)

	remaining := r.predefined[:0]
	for _, p := range r.predefined {
		if p.ID != risk.ID {
			remaining = append(remaining, p)
		}
	}
	r.predefined = remaining

	return created.Copy(), nil
}
