package file

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
)

type riskRepository struct {
	store *File
}

func (r *riskRepository) List(ctx context.Context) ([]*model.Risk, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.readRisks()
}

func (r *riskRepository) readRisks() ([]*model.Risk, error) {
	risks := []*model.Risk{}
	if err := r.store.read(RiskFile, &risks); err != nil {
		return nil, err
	}
	if err := model.ValidateRisks(risks); err != nil {
		return nil, goerr.Wrap(err, "corrupt data file", goerr.V("file", RiskFile))
	}
	return risks, nil
}

func (r *riskRepository) readPredefined() ([]*model.PredefinedRisk, error) {
	catalog := []*model.PredefinedRisk{}
	if err := r.store.read(PredefinedRiskFile, &catalog); err != nil {
		return nil, err
	}
	if err := model.ValidatePredefinedRisks(catalog); err != nil {
		return nil, goerr.Wrap(err, "corrupt data file", goerr.V("file", PredefinedRiskFile))
	}
	return catalog, nil
}

func (r *riskRepository) ListPredefined(ctx context.Context) ([]*model.PredefinedRisk, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.readPredefined()
}

func (r *riskRepository) PutPredefined(ctx context.Context, catalog []*model.PredefinedRisk) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if catalog == nil {
		catalog = []*model.PredefinedRisk{}
	}
	return r.store.write(ctx, PredefinedRiskFile, catalog)
}

func (r *riskRepository) Promote(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	risks, err := r.readRisks()
	if err != nil {
		return nil, err
	}
	for _, existing := range risks {
		if existing.ID == risk.ID {
			return nil, goerr.Wrap(interfaces.ErrAlreadyExists, "risk already in matrix", goerr.V(model.RiskIDKey, risk.ID))
		}
	}

	catalog, err := r.readPredefined()
	if err != nil {
		return nil, err
	}

	created := risk.Copy()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	// The catalog entry is consumed first and restored if the risk cannot be appended
	remaining := make([]*model.PredefinedRisk, 0, len(catalog))
	for _, p := range catalog {
		if p.ID != risk.ID {
			remaining = append(remaining, p)
		}
	}
	consumed := len(remaining) != len(catalog)
	if consumed {
		if err := r.store.write(ctx, PredefinedRiskFile, remaining); err != nil {
			return nil, goerr.Wrap(err, "failed to remove predefined risk", goerr.V(model.RiskIDKey, risk.ID))
		}
	}

	if err := r.store.write(ctx, RiskFile, append(risks, created)); err != nil {
		if consumed {
			if rbErr := r.store.write(ctx, PredefinedRiskFile, catalog); rbErr != nil {
				logging.From(ctx).Error("failed to restore predefined risk", "risk_id", risk.ID, "error", rbErr)
			}
		}
		return nil, goerr.Wrap(err, "failed to append risk", goerr.V(model.RiskIDKey, risk.ID))
	}

	return created.Copy(), nil
}
