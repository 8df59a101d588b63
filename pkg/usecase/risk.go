package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/utils/async"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
)

type RiskUseCase struct {
	repo       interfaces.Repository
	notifier   interfaces.RiskNotifier
	recorder   interfaces.SubmissionRecorder
	dispatcher *async.Dispatcher
}

func (uc *RiskUseCase) ListRisks(ctx context.Context) ([]*model.Risk, error) {
	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}
	if risks == nil {
		risks = []*model.Risk{}
	}
	return risks, nil
}

func (uc *RiskUseCase) ListPredefined(ctx context.Context) ([]*model.PredefinedRisk, error) {
	catalog, err := uc.repo.Risk().ListPredefined(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list predefined risks")
	}
	if catalog == nil {
		catalog = []*model.PredefinedRisk{}
	}
	return catalog, nil
}

// SubmitRisk places a risk in the matrix and consumes the catalog entry with the same ID
func (uc *RiskUseCase) SubmitRisk(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	if risk == nil {
		return nil, goerr.Wrap(ErrInvalidInput, "risk is required")
	}
	if err := risk.Validate(); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidInput, err), "invalid risk", goerr.V(model.RiskIDKey, risk.ID))
	}

	created, err := uc.repo.Risk().Promote(ctx, risk)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to promote risk", goerr.V(model.RiskIDKey, risk.ID))
	}

	uc.recorder.RiskPromoted(created.Severity())
	logging.From(ctx).Info("risk added to matrix",
		"risk_id", created.ID,
		"score", created.Score(),
		"severity", created.Severity(),
	)

	if uc.notifier != nil {
		notified := created.Copy()
		uc.dispatcher.Dispatch(ctx, func(ctx context.Context) error {
			if err := uc.notifier.NotifyRiskAdded(ctx, notified); err != nil {
				return goerr.Wrap(err, "failed to notify risk", goerr.V(model.RiskIDKey, notified.ID))
			}
			return nil
		})
	}

	return created, nil
}
