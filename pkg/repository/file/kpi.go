package file

import (
	"context"

	"github.com/secmon-lab/qaboard/pkg/domain/model"
)

type kpiRepository struct {
	store *File
}

func (r *kpiRepository) GetSeries(ctx context.Context) (model.KPISeries, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	series := model.KPISeries{}
	if err := r.store.read(KPIFile, &series); err != nil {
		return nil, err
	}
	return series, nil
}

func (r *kpiRepository) PutSeries(ctx context.Context, series model.KPISeries) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if series == nil {
		series = model.KPISeries{}
	}
	return r.store.write(ctx, KPIFile, series)
}

func (r *kpiRepository) GetTargets(ctx context.Context) (model.KPITargets, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	targets := model.KPITargets{}
	if err := r.store.read(KPITargetsFile, &targets); err != nil {
		return nil, err
	}
	return targets, nil
}

func (r *kpiRepository) PutTargets(ctx context.Context, targets model.KPITargets) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if targets == nil {
		targets = model.KPITargets{}
	}
	return r.store.write(ctx, KPITargetsFile, targets)
}
