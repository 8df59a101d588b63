package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
)

type KPIUseCase struct {
	repo        interfaces.Repository
	definitions model.MetricDefinitions
}

func (uc *KPIUseCase) GetSeries(ctx context.Context) (model.KPISeries, error) {
	series, err := uc.repo.KPI().GetSeries(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get KPI series")
	}
	if series == nil {
		series = model.KPISeries{}
	}
	return series, nil
}

func (uc *KPIUseCase) GetTargets(ctx context.Context) (model.KPITargets, error) {
	targets, err := uc.repo.KPI().GetTargets(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get KPI targets")
	}
	if targets == nil {
		targets = model.KPITargets{}
	}
	return targets, nil
}

// MetricDefinitions returns a copy of the direction table
func (uc *KPIUseCase) MetricDefinitions() model.MetricDefinitions {
	return append(model.MetricDefinitions{}, uc.definitions...)
}
