package memory

import (
	"context"
	"sync"

	"github.com/secmon-lab/qaboard/pkg/domain/model"
)

type kpiRepository struct {
	mu      sync.RWMutex
	series  model.KPISeries
	targets model.KPITargets
}

func newKPIRepository() *kpiRepository {
	return &kpiRepository{
		series:  model.KPISeries{},
		targets: model.KPITargets{},
	}
}

func (r *kpiRepository) GetSeries(ctx context.Context) (model.KPISeries, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Return a copy to prevent external modification
	return r.series.Clone(), nil
}

func (r *kpiRepository) PutSeries(ctx context.Context, series model.KPISeries) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.series = series.Clone()
	if r.series == nil {
		r.series = model.KPISeries{}
	}
	return nil
}

func (r *kpiRepository) GetTargets(ctx context.Context) (model.KPITargets, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.targets.Clone(), nil
}

func (r *kpiRepository) PutTargets(ctx context.Context, targets model.KPITargets) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.targets = targets.Clone()
	if r.targets == nil {
		r.targets = model.KPITargets{}
	}
	return nil
}
