package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/dashboard"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
)

type pane int

const (
	paneChart pane = iota
	paneFeedback
	paneRisk
	paneCount
)

// risk form fields, left to right
type riskField int

const (
	fieldRisk riskField = iota
	fieldLikelihood
	fieldImpact
	fieldCount
)

// loadedMsg reports that one dataset fetch finished; the data itself lives in the controller
type loadedMsg struct {
	dataset dashboard.Dataset
	err     error
}

type feedbackSubmittedMsg struct{ err error }

type riskSubmittedMsg struct{ err error }

// Model binds key events to the dashboard controller
type Model struct {
	ctx  context.Context
	ctrl *dashboard.Controller

	keys     keyMap
	help     help.Model
	textarea textarea.Model

	pane      pane
	fbCursor  int
	fbColumn  dashboard.Selection
	riskField riskField

	notice string
	err    error
	width  int
}

func New(ctx context.Context, ctrl *dashboard.Controller) Model {
	ta := textarea.New()
	ta.Placeholder = "Why do these metrics help, or not?"
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(3)

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		keys:     keys,
		help:     help.New(),
		textarea: ta,
	}
}

// Init dispatches the four fetches as independent commands
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.load(dashboard.DatasetKPISeries, m.ctrl.LoadKPISeries),
		m.load(dashboard.DatasetKPITargets, m.ctrl.LoadKPITargets),
		m.load(dashboard.DatasetRisks, m.ctrl.LoadRisks),
		m.load(dashboard.DatasetPredefinedRisks, m.ctrl.LoadPredefinedRisks),
		m.loadDefinitions(),
		textarea.Blink,
	)
}

func (m Model) load(d dashboard.Dataset, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return loadedMsg{dataset: d, err: fn(ctx)}
	}
}

func (m Model) loadDefinitions() tea.Cmd {
	ctx := m.ctx
	ctrl := m.ctrl
	return func() tea.Msg {
		if err := ctrl.LoadDefinitions(ctx); err != nil {
			logging.From(ctx).Warn("using built-in metric definitions", "error", err)
		}
		return nil
	}
}

func (m Model) submitFeedback() tea.Cmd {
	ctx := m.ctx
	ctrl := m.ctrl
	return func() tea.Msg {
		return feedbackSubmittedMsg{err: ctrl.SubmitFeedback(ctx)}
	}
}

func (m Model) submitRisk() tea.Cmd {
	ctx := m.ctx
	ctrl := m.ctrl
	return func() tea.Msg {
		return riskSubmittedMsg{err: ctrl.SubmitRisk(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			logging.From(m.ctx).Error("failed to load dataset", "dataset", msg.dataset, "error", msg.err)
		}
		return m, nil

	case feedbackSubmittedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.notice = ""
			return m, nil
		}
		m.textarea.Reset()
		m.err = nil
		m.notice = "Feedback submitted"
		return m, nil

	case riskSubmittedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.notice = ""
			return m, nil
		}
		m.err = nil
		m.notice = "Risk added to the matrix"
		m.riskField = fieldRisk
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.textarea.Focused() {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// While editing, keys go to the textarea except esc
	if m.textarea.Focused() {
		if key.Matches(msg, m.keys.Blur) {
			m.textarea.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		m.ctrl.SetJustification(m.textarea.Value())
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextPane):
		m.pane = (m.pane + 1) % paneCount
		return m, nil
	case key.Matches(msg, m.keys.PrevPane):
		m.pane = (m.pane + paneCount - 1) % paneCount
		return m, nil
	case key.Matches(msg, m.keys.Risk):
		m.pane = paneRisk
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		m.notice = "Reloading"
		return m, m.Init()
	}

	switch m.pane {
	case paneChart:
		return m.handleChartKey(msg)
	case paneFeedback:
		return m.handleFeedbackKey(msg)
	case paneRisk:
		return m.handleRiskKey(msg)
	}
	return m, nil
}

func (m Model) handleChartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var step int
	switch {
	case key.Matches(msg, m.keys.Left):
		step = -1
	case key.Matches(msg, m.keys.Right):
		step = 1
	default:
		return m, nil
	}

	metrics := m.ctrl.Snapshot().Metrics
	if len(metrics) == 0 {
		return m, nil
	}
	current := 0
	for i, name := range metrics {
		if name == m.ctrl.Selected() {
			current = i
		}
	}
	next := metrics[(current+step+len(metrics))%len(metrics)]
	if err := m.ctrl.SelectMetric(m.ctx, next); err != nil {
		m.err = err
	}
	return m, nil
}

func (m Model) handleFeedbackKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := m.ctrl.Snapshot().Definitions.Names()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.fbCursor > 0 {
			m.fbCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.fbCursor < len(names)-1 {
			m.fbCursor++
		}
	case key.Matches(msg, m.keys.Left):
		m.fbColumn = dashboard.SelectionValuable
	case key.Matches(msg, m.keys.Right):
		m.fbColumn = dashboard.SelectionNotValuable
	case key.Matches(msg, m.keys.Toggle):
		if m.fbCursor < len(names) {
			if err := m.ctrl.Toggle(m.fbColumn, names[m.fbCursor]); err != nil {
				m.err = err
			}
		}
	case key.Matches(msg, m.keys.Edit):
		cmd := m.textarea.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Submit):
		if m.ctrl.SubmittingFeedback() {
			return m, nil
		}
		m.notice = "Submitting feedback"
		return m, m.submitFeedback()
	}
	return m, nil
}

var scaleChoices = []string{"", "1", "2", "3", "4", "5"}

func cycle(values []string, current string, step int) string {
	idx := 0
	for i, v := range values {
		if v == current {
			idx = i
		}
	}
	return values[(idx+step+len(values))%len(values)]
}

func (m Model) handleRiskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.ctrl.Snapshot()

	step := 0
	switch {
	case key.Matches(msg, m.keys.Left):
		m.riskField = (m.riskField + fieldCount - 1) % fieldCount
		return m, nil
	case key.Matches(msg, m.keys.Right):
		m.riskField = (m.riskField + 1) % fieldCount
		return m, nil
	case key.Matches(msg, m.keys.Up):
		step = -1
	case key.Matches(msg, m.keys.Down):
		step = 1
	case key.Matches(msg, m.keys.Submit):
		if !snap.CanSubmitRisk {
			m.err = ErrIncompleteRiskForm
			return m, nil
		}
		m.notice = "Submitting risk"
		return m, m.submitRisk()
	default:
		// Digits set the focused scale directly
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '5' {
			switch m.riskField {
			case fieldLikelihood:
				m.ctrl.SetLikelihood(s)
			case fieldImpact:
				m.ctrl.SetImpact(s)
			}
		}
		return m, nil
	}

	switch m.riskField {
	case fieldRisk:
		ids := []string{""}
		for _, p := range snap.Predefined {
			ids = append(ids, string(p.ID))
		}
		m.ctrl.SetRiskChoice(types.RiskID(cycle(ids, string(snap.RiskForm.RiskID), step)))
	case fieldLikelihood:
		m.ctrl.SetLikelihood(cycle(scaleChoices, snap.RiskForm.Likelihood, step))
	case fieldImpact:
		m.ctrl.SetImpact(cycle(scaleChoices, snap.RiskForm.Impact, step))
	}
	return m, nil
}

// Run starts the terminal UI and disposes the controller's chart when it exits
func Run(ctx context.Context, ctrl *dashboard.Controller) error {
	defer func() {
		if err := ctrl.Close(ctx); err != nil {
			logging.From(ctx).Warn("failed to close dashboard", "error", err)
		}
	}()

	p := tea.NewProgram(New(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return goerr.Wrap(err, "terminal UI stopped")
	}
	return nil
}
