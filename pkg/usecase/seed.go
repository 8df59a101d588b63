package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
)

// Seed fills every empty dataset from ds. Datasets that already hold data are left alone.
func (uc *UseCases) Seed(ctx context.Context, ds *model.Dataset) error {
	if ds == nil {
		return nil
	}
	if err := ds.Validate(); err != nil {
		return goerr.Wrap(err, "invalid seed dataset")
	}
	logger := logging.From(ctx)

	series, err := uc.repo.KPI().GetSeries(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to get KPI series")
	}
	if len(series) == 0 && len(ds.Series) > 0 {
		if err := uc.repo.KPI().PutSeries(ctx, ds.Series); err != nil {
			return goerr.Wrap(err, "failed to seed KPI series")
		}
		logger.Info("seeded KPI series", "metrics", len(ds.Series))
	}

	targets, err := uc.repo.KPI().GetTargets(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to get KPI targets")
	}
	if len(targets) == 0 && len(ds.Targets) > 0 {
		if err := uc.repo.KPI().PutTargets(ctx, ds.Targets); err != nil {
			return goerr.Wrap(err, "failed to seed KPI targets")
		}
		logger.Info("seeded KPI targets", "metrics", len(ds.Targets))
	}

	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list risks")
	}
	predefined, err := uc.repo.Risk().ListPredefined(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list predefined risks")
	}

	// A catalog that was fully consumed still has risks; only a fresh store is seeded
	if len(risks) == 0 && len(predefined) == 0 {
		if len(ds.Predefined) > 0 {
			if err := uc.repo.Risk().PutPredefined(ctx, ds.Predefined); err != nil {
				return goerr.Wrap(err, "failed to seed predefined risks")
			}
		}
		for _, r := range ds.Risks {
			if _, err := uc.repo.Risk().Promote(ctx, r); err != nil {
				return goerr.Wrap(err, "failed to seed risk", goerr.V(model.RiskIDKey, r.ID))
			}
		}
		logger.Info("seeded risks", "predefined", len(ds.Predefined), "risks", len(ds.Risks))
	}

	return nil
}
