package dashboard

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// SetRiskChoice picks a predefined risk by ID; an empty ID clears the choice
func (c *Controller) SetRiskChoice(id types.RiskID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.RiskID = id
}

// SetLikelihood stores raw form input; it is parsed on submit
func (c *Controller) SetLikelihood(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Likelihood = raw
}

// SetImpact stores raw form input; it is parsed on submit
func (c *Controller) SetImpact(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Impact = raw
}

// RiskForm returns the current form values
func (c *Controller) RiskForm() RiskForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// CanSubmitRisk mirrors the submit button: a risk, a likelihood and an impact are chosen
// and no submission is running
func (c *Controller) CanSubmitRisk() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitRisk()
}

func (c *Controller) canSubmitRisk() bool {
	return !c.submittingRisk && c.form.RiskID != "" && c.form.Likelihood != "" && c.form.Impact != ""
}

// buildRisk validates the form against the catalog. Callers hold c.mu.
func (c *Controller) buildRisk() (*model.Risk, error) {
	if c.form.RiskID == "" {
		return nil, goerr.Wrap(ErrRiskNotChosen, "cannot submit risk")
	}
	p, ok := model.FindPredefinedRisk(c.predefined, c.form.RiskID)
	if !ok {
		return nil, goerr.Wrap(ErrUnknownRisk, "cannot submit risk", goerr.V(model.RiskIDKey, c.form.RiskID))
	}

	l, err := types.ParseLikelihood(c.form.Likelihood)
	if err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidRiskInput, err), "invalid likelihood", goerr.V("likelihood", c.form.Likelihood))
	}
	i, err := types.ParseImpact(c.form.Impact)
	if err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidRiskInput, err), "invalid impact", goerr.V("impact", c.form.Impact))
	}

	return p.Assess(l, i), nil
}

// SubmitRisk posts the chosen catalog entry with its likelihood and impact. Invalid form
// input is rejected without a request. After the server accepts the risk, the risk list and
// the catalog are refetched concurrently and the form is cleared even if a refetch fails;
// the failing slot moves to failed.
func (c *Controller) SubmitRisk(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return goerr.Wrap(ErrClosed, "risk")
	}
	if c.submittingRisk {
		c.mu.Unlock()
		return goerr.Wrap(ErrSubmissionInFlight, "risk")
	}
	risk, err := c.buildRisk()
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.submittingRisk = true
	c.mu.Unlock()

	if err := c.api.SubmitRisk(ctx, risk); err != nil {
		c.mu.Lock()
		c.submittingRisk = false
		c.mu.Unlock()
		return goerr.Wrap(err, "failed to submit risk", goerr.V(model.RiskIDKey, risk.ID))
	}

	var g errgroup.Group
	g.Go(func() error { return c.LoadRisks(ctx) })
	g.Go(func() error { return c.LoadPredefinedRisks(ctx) })
	if err := g.Wait(); err != nil {
		logging.From(ctx).Warn("refetch after risk submission failed", "risk_id", risk.ID, "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submittingRisk = false
	c.form = RiskForm{}
	return nil
}
