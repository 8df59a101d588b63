package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// RiskForm is the raw state of the risk submission form. Empty strings mean not chosen.
type RiskForm struct {
	RiskID     types.RiskID
	Likelihood string
	Impact     string
}

// Controller keeps the dashboard view state in sync with the backend.
// All methods are safe for concurrent use; fetches may complete in any order.
type Controller struct {
	api      interfaces.DashboardAPI
	renderer interfaces.ChartRenderer
	now      func() time.Time

	mu sync.Mutex

	definitions model.MetricDefinitions
	series      model.KPISeries
	targets     model.KPITargets
	risks       []*model.Risk
	predefined  []*model.PredefinedRisk
	slots       map[Dataset]Slot

	selected  types.MetricName
	chart     *model.ChartConfig
	handle    interfaces.ChartHandle
	renderErr error

	valuable           []types.MetricName
	notValuable        []types.MetricName
	justification      string
	submittingFeedback bool

	form           RiskForm
	submittingRisk bool

	closed bool
}

type Option func(*Controller)

// WithRenderer draws every derived chart configuration
func WithRenderer(r interfaces.ChartRenderer) Option {
	return func(c *Controller) {
		c.renderer = r
	}
}

// WithDefinitions sets the direction table used before the backend provides one
func WithDefinitions(defs model.MetricDefinitions) Option {
	return func(c *Controller) {
		c.definitions = defs
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func New(api interfaces.DashboardAPI, opts ...Option) *Controller {
	c := &Controller{
		api:         api,
		now:         time.Now,
		definitions: model.DefaultMetricDefinitions(),
		slots:       make(map[Dataset]Slot, 4),
		selected:    types.DefaultMetric,
	}
	for _, d := range Datasets() {
		c.slots[d] = Slot{State: SlotPending}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load runs the four initial fetches concurrently. Each fills its own slot regardless of
// the others; the first error is returned after all have finished.
func (c *Controller) Load(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.LoadKPISeries(ctx) })
	g.Go(func() error { return c.LoadKPITargets(ctx) })
	g.Go(func() error { return c.LoadRisks(ctx) })
	g.Go(func() error { return c.LoadPredefinedRisks(ctx) })
	if _, ok := c.api.(interfaces.MetricDefinitionSource); ok {
		g.Go(func() error {
			// Built-in definitions stay in effect when the backend has none to offer
			if err := c.LoadDefinitions(ctx); err != nil {
				logging.From(ctx).Warn("using built-in metric definitions", "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// checkOpen returns ErrClosed once Close has run
func (c *Controller) checkOpen(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return goerr.Wrap(ErrClosed, op)
	}
	return nil
}

func (c *Controller) fail(d Dataset, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[d] = Slot{State: SlotFailed, Err: err}
	return err
}

func (c *Controller) LoadKPISeries(ctx context.Context) error {
	if err := c.checkOpen("load KPI series"); err != nil {
		return err
	}
	series, err := c.api.FetchKPISeries(ctx)
	if err != nil {
		return c.fail(DatasetKPISeries, goerr.Wrap(err, "failed to fetch KPI series"))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.series = series.Clone()
	c.slots[DatasetKPISeries] = Slot{State: SlotLoaded}
	c.refreshChart(ctx)
	return nil
}

func (c *Controller) LoadKPITargets(ctx context.Context) error {
	if err := c.checkOpen("load KPI targets"); err != nil {
		return err
	}
	targets, err := c.api.FetchKPITargets(ctx)
	if err != nil {
		return c.fail(DatasetKPITargets, goerr.Wrap(err, "failed to fetch KPI targets"))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.targets = targets.Clone()
	c.slots[DatasetKPITargets] = Slot{State: SlotLoaded}
	c.refreshChart(ctx)
	return nil
}

func (c *Controller) LoadRisks(ctx context.Context) error {
	if err := c.checkOpen("load risks"); err != nil {
		return err
	}
	risks, err := c.api.FetchRisks(ctx)
	if err != nil {
		return c.fail(DatasetRisks, goerr.Wrap(err, "failed to fetch risks"))
	}
	if err := model.RejectNil(risks); err != nil {
		return c.fail(DatasetRisks, goerr.Wrap(errors.Join(ErrMalformedDataset, err), "failed to fetch risks"))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.risks = risks
	c.slots[DatasetRisks] = Slot{State: SlotLoaded}
	return nil
}

func (c *Controller) LoadPredefinedRisks(ctx context.Context) error {
	if err := c.checkOpen("load predefined risks"); err != nil {
		return err
	}
	catalog, err := c.api.FetchPredefinedRisks(ctx)
	if err != nil {
		return c.fail(DatasetPredefinedRisks, goerr.Wrap(err, "failed to fetch predefined risks"))
	}
	if err := model.RejectNil(catalog); err != nil {
		return c.fail(DatasetPredefinedRisks, goerr.Wrap(errors.Join(ErrMalformedDataset, err), "failed to fetch predefined risks"))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.predefined = catalog
	c.slots[DatasetPredefinedRisks] = Slot{State: SlotLoaded}
	return nil
}

// LoadDefinitions replaces the direction table with the backend's when the API offers one
func (c *Controller) LoadDefinitions(ctx context.Context) error {
	src, ok := c.api.(interfaces.MetricDefinitionSource)
	if !ok {
		return nil
	}
	defs, err := src.FetchMetricDefinitions(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch metric definitions")
	}
	if err := defs.Validate(); err != nil {
		return goerr.Wrap(err, "backend returned invalid metric definitions")
	}
	if len(defs) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.definitions = defs
	return nil
}

// refreshChart re-derives the chart of the selected metric. The previous chart is
// disposed before a new one is rendered. Callers hold c.mu.
func (c *Controller) refreshChart(ctx context.Context) {
	if c.closed {
		return
	}

	cfg, ok := model.NewKPIChart(c.series, c.targets, c.selected)
	if !ok || cfg.Target == nil {
		c.disposeChart(ctx)
		c.chart = nil
		return
	}

	c.disposeChart(ctx)
	c.chart = cfg
	c.renderErr = nil
	if c.renderer == nil {
		return
	}

	handle, err := c.renderer.Render(cfg)
	if err != nil {
		c.renderErr = goerr.Wrap(err, "failed to render chart", goerr.V(model.MetricKey, c.selected))
		logging.From(ctx).Warn("failed to render chart", "metric", c.selected, "error", err)
		return
	}
	c.handle = handle
}

func (c *Controller) disposeChart(ctx context.Context) {
	if c.handle == nil {
		return
	}
	if err := c.handle.Dispose(); err != nil {
		logging.From(ctx).Warn("failed to dispose chart", "error", err)
	}
	c.handle = nil
}

// SelectMetric switches the charted metric. Only metrics present in the KPI series are accepted.
func (c *Controller) SelectMetric(ctx context.Context, m types.MetricName) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.series.Has(m) {
		return goerr.Wrap(ErrUnknownMetric, "cannot select metric", goerr.V(model.MetricKey, m))
	}
	if c.selected == m {
		return nil
	}
	c.selected = m
	c.refreshChart(ctx)
	return nil
}

// Selected returns the charted metric
func (c *Controller) Selected() types.MetricName {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Ready reports whether series data for the selected metric exists; views show a loading message otherwise
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.series.Has(c.selected)
}

// Chart returns the current chart configuration and its rendered handle, if any
func (c *Controller) Chart() (*model.ChartConfig, interfaces.ChartHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chart, c.handle
}

// Status evaluates the selected metric. It returns false until both the latest sample and the target exist.
func (c *Controller) Status() (model.StatusReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.EvaluateStatus(c.series, c.targets, c.definitions, c.selected)
}

// Matrix buckets the loaded risks into the 5×5 grid
func (c *Controller) Matrix() *model.RiskMatrix {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.NewRiskMatrix(c.risks)
}

// Slot returns the load state of a dataset
func (c *Controller) Slot(d Dataset) Slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slots[d]
}

// Close disposes the current chart. Later loads and submissions return ErrClosed.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.handle == nil {
		return nil
	}
	err := c.handle.Dispose()
	c.handle = nil
	if err != nil {
		return goerr.Wrap(err, "failed to dispose chart")
	}
	return nil
}
