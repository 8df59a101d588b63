package tui

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/m-mizutani/gt"
	"github.com/muesli/termenv"
	server "github.com/secmon-lab/qaboard/pkg/controller/http"
	"github.com/secmon-lab/qaboard/pkg/dashboard"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
	"github.com/secmon-lab/qaboard/pkg/repository/memory"
	"github.com/secmon-lab/qaboard/pkg/service/api"
	"github.com/secmon-lab/qaboard/pkg/service/chart"
	"github.com/secmon-lab/qaboard/pkg/usecase"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func newTestModel(t *testing.T) (Model, *memory.Memory) {
	t.Helper()
	ctx := context.Background()

	repo := memory.New()
	gt.NoError(t, repo.KPI().PutSeries(ctx, model.KPISeries{
		types.MetricDefectDensity: {5, 4, 3, 2},
		types.MetricTestCoverage:  {70, 75, 80, 78},
		types.MetricMTTD:          {10, 9, 8},
	})).Required()
	gt.NoError(t, repo.KPI().PutTargets(ctx, model.KPITargets{
		types.MetricDefectDensity: 3,
		types.MetricTestCoverage:  80,
	})).Required()
	gt.NoError(t, repo.Risk().PutPredefined(ctx, []*model.PredefinedRisk{
		{ID: "R1", Description: "Late requirement changes"},
		{ID: "R2", Description: "Flaky test environment"},
	})).Required()

	ts := httptest.NewServer(server.New(usecase.New(repo)))
	t.Cleanup(ts.Close)

	client, err := api.New(ts.URL)
	gt.NoError(t, err).Required()

	ctrl := dashboard.New(client, dashboard.WithRenderer(chart.NewText()))
	t.Cleanup(func() { _ = ctrl.Close(ctx) })
	gt.NoError(t, ctrl.Load(ctx)).Required()

	return New(ctx, ctrl), repo
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = send(m, msg)
	}
	return m
}

// runCmd executes a submit command and feeds its result back
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	gt.Value(t, cmd != nil).Equal(true).Required()
	m, _ = send(m, cmd())
	return m
}

func TestViewShowsDefaultMetric(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(m, tea.WindowSizeMsg{Width: 160, Height: 60})

	view := m.View()
	gt.String(t, view).Contains("QA KPI Dashboard")
	gt.String(t, view).Contains("[defect_density]")
	gt.String(t, view).Contains("Latest: 2 | Target: 3")
	gt.String(t, view).Contains("GREEN")
	gt.String(t, view).Contains("Can this metric be gamed easily?")
	gt.String(t, view).Contains("Not Valuable Metrics (Pick 3)")
	gt.Bool(t, strings.Contains(view, "Loading dashboard data")).False()
}

func TestChartPaneSwitchesMetric(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(m, "right")
	gt.Value(t, m.ctrl.Selected()).Equal(types.MetricTestCoverage)

	view := m.View()
	gt.String(t, view).Contains("[test_coverage]")
	gt.String(t, view).Contains("Latest: 78 | Target: 80")
	gt.String(t, view).Contains("RED")

	// mttd has samples but no target
	m = press(m, "left", "left")
	gt.Value(t, m.ctrl.Selected()).Equal(types.MetricMTTD)
	view = m.View()
	gt.String(t, view).Contains("No chart for mttd")
	gt.Bool(t, strings.Contains(view, "Latest:")).False()
}

func TestFeedbackPane(t *testing.T) {
	m, repo := newTestModel(t)

	// valuable: defect_density, test_coverage; not valuable: mttd
	m = press(m, "tab", "space", "down", "space", "down", "right", "space")
	snap := m.ctrl.Snapshot()
	gt.Array(t, snap.Valuable).Equal([]types.MetricName{types.MetricDefectDensity, types.MetricTestCoverage})
	gt.Array(t, snap.NotValuable).Equal([]types.MetricName{types.MetricMTTD})
	gt.String(t, m.View()).Contains("[x] test_coverage")

	m = press(m, "e", "T", "r", "a", "c", "k", "s", "esc")
	gt.Bool(t, m.textarea.Focused()).False()
	gt.Value(t, m.ctrl.Snapshot().Justification).Equal("Tracks")

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = runCmd(t, m, cmd)
	gt.NoError(t, m.err)
	gt.Value(t, m.notice).Equal("Feedback submitted")
	gt.Value(t, m.textarea.Value()).Equal("")

	stored, err := repo.Feedback().List(context.Background())
	gt.NoError(t, err).Required()
	gt.Array(t, stored).Length(1).Required()
	gt.Value(t, stored[0].Justification).Equal("Tracks")
	gt.Array(t, m.ctrl.Snapshot().Valuable).Length(0)
}

func TestEditingCapturesQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "tab", "e")
	gt.Bool(t, m.textarea.Focused()).True()

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	gt.Value(t, m.ctrl.Snapshot().Justification).Equal("q")
	gt.Value(t, m.textarea.Value()).Equal("q")
}

func TestRiskPane(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(m, "r")
	gt.Value(t, m.pane).Equal(paneRisk)

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	gt.Value(t, cmd == nil).Equal(true)
	gt.Error(t, m.err).Is(ErrIncompleteRiskForm)
	gt.String(t, m.View()).Contains("choose a risk, a likelihood and an impact first")

	// R1, likelihood 3, impact 4
	m = press(m, "down", "right", "3", "right", "4")
	form := m.ctrl.RiskForm()
	gt.Value(t, form).Equal(dashboard.RiskForm{RiskID: "R1", Likelihood: "3", Impact: "4"})
	gt.String(t, m.View()).Contains("R1 - Late requirement changes")

	m, cmd = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = runCmd(t, m, cmd)
	gt.NoError(t, m.err)
	gt.Value(t, m.notice).Equal("Risk added to the matrix")

	snap := m.ctrl.Snapshot()
	cell := snap.Matrix.Cell(3, 4)
	gt.Value(t, cell.Severity).Equal(types.SeverityOrange)
	gt.Array(t, cell.Risks).Length(1)
	gt.Array(t, snap.Predefined).Length(1)
	gt.Value(t, snap.RiskForm).Equal(dashboard.RiskForm{})
	gt.String(t, m.View()).Contains("R1")
}

func TestRiskPaneCyclesScale(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "r", "right", "down", "down", "up")
	gt.Value(t, m.ctrl.RiskForm().Likelihood).Equal("1")
	m = press(m, "up", "up")
	gt.Value(t, m.ctrl.RiskForm().Likelihood).Equal("5")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	gt.Value(t, cmd != nil).Equal(true).Required()
	_, ok := cmd().(tea.QuitMsg)
	gt.Bool(t, ok).True()
}

func TestViewWhileLoading(t *testing.T) {
	ctrl := dashboard.New(nil)
	m := New(context.Background(), ctrl)
	view := m.View()
	gt.String(t, view).Contains("Loading dashboard data")
	gt.Bool(t, strings.Contains(view, "Latest:")).False()
}
