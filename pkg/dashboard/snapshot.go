package dashboard

import (
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
)

// Snapshot is a copy of everything a view needs to draw one frame
type Snapshot struct {
	Selected    types.MetricName
	Metrics     []types.MetricName
	Definitions model.MetricDefinitions
	Ready       bool

	Chart       *model.ChartConfig
	ChartHandle interfaces.ChartHandle
	ChartErr    error
	Status      *model.StatusReport

	Risks      []*model.Risk
	Predefined []*model.PredefinedRisk
	Matrix     *model.RiskMatrix

	Valuable           []types.MetricName
	NotValuable        []types.MetricName
	Justification      string
	SubmittingFeedback bool

	RiskForm       RiskForm
	CanSubmitRisk  bool
	SubmittingRisk bool

	Slots map[Dataset]Slot
}

// Loading reports whether any dataset is still pending
func (s *Snapshot) Loading() bool {
	for _, slot := range s.Slots {
		if slot.State == SlotPending {
			return true
		}
	}
	return false
}

// Failed returns the datasets whose last fetch failed
func (s *Snapshot) Failed() []Dataset {
	var failed []Dataset
	for _, d := range Datasets() {
		if s.Slots[d].State == SlotFailed {
			failed = append(failed, d)
		}
	}
	return failed
}

func (c *Controller) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	risks := make([]*model.Risk, len(c.risks))
	for i, r := range c.risks {
		risks[i] = r.Copy()
	}
	predefined := make([]*model.PredefinedRisk, len(c.predefined))
	for i, p := range c.predefined {
		predefined[i] = p.Copy()
	}
	slots := make(map[Dataset]Slot, len(c.slots))
	for k, v := range c.slots {
		slots[k] = v
	}

	s := &Snapshot{
		Selected:           c.selected,
		Metrics:            c.series.Metrics(),
		Definitions:        append(model.MetricDefinitions{}, c.definitions...),
		Ready:              c.series.Has(c.selected),
		ChartHandle:        c.handle,
		ChartErr:           c.renderErr,
		Risks:              risks,
		Predefined:         predefined,
		Matrix:             model.NewRiskMatrix(risks),
		Valuable:           append([]types.MetricName{}, c.valuable...),
		NotValuable:        append([]types.MetricName{}, c.notValuable...),
		Justification:      c.justification,
		SubmittingFeedback: c.submittingFeedback,
		RiskForm:           c.form,
		CanSubmitRisk:      c.canSubmitRisk(),
		SubmittingRisk:     c.submittingRisk,
		Slots:              slots,
	}
	if c.chart != nil {
		chart := *c.chart
		s.Chart = &chart
	}
	if report, ok := model.EvaluateStatus(c.series, c.targets, c.definitions, c.selected); ok {
		s.Status = &report
	}
	return s
}
