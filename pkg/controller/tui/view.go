package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/secmon-lab/qaboard/pkg/dashboard"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
)

var guidingQuestions = []string{
	"Does this metric influence actual quality or just track activity?",
	"Can this metric be gamed easily?",
	"Does this help identify risks early or improve team behavior?",
}

// textView is implemented by charts that draw into the terminal
type textView interface {
	View() string
}

func (m Model) View() string {
	snap := m.ctrl.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("QA KPI Dashboard"))
	b.WriteString("\n")

	if !snap.Ready {
		b.WriteString(dimStyle.Render("Loading dashboard data..."))
		b.WriteString("\n")
	}
	for _, d := range snap.Failed() {
		fmt.Fprintf(&b, "%s\n", errorStyle.Render(fmt.Sprintf("failed to load %s: %v", d, snap.Slots[d].Err)))
	}

	b.WriteString(m.paneBox(paneChart, m.chartView(snap)))
	b.WriteString("\n")
	b.WriteString(m.paneBox(paneFeedback, m.feedbackView(snap)))
	b.WriteString("\n")
	b.WriteString(m.paneBox(paneRisk, m.riskView(snap)))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	case m.notice != "":
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return appStyle.Render(b.String())
}

func (m Model) paneBox(p pane, body string) string {
	if m.pane == p {
		return activePaneStyle.Render(body)
	}
	return paneStyle.Render(body)
}

func (m Model) chartView(snap *dashboard.Snapshot) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("KPI Trends"))
	b.WriteString("\n")

	tabs := make([]string, 0, len(snap.Metrics))
	for _, name := range snap.Metrics {
		if name == snap.Selected {
			tabs = append(tabs, selectedStyle.Render("["+string(name)+"]"))
		} else {
			tabs = append(tabs, dimStyle.Render(string(name)))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	if tv, ok := snap.ChartHandle.(textView); ok {
		b.WriteString(tv.View())
		b.WriteString("\n")
	} else if snap.ChartErr != nil {
		b.WriteString(errorStyle.Render("chart: " + snap.ChartErr.Error()))
		b.WriteString("\n")
	} else if snap.Ready {
		b.WriteString(dimStyle.Render("No chart for " + string(snap.Selected)))
		b.WriteString("\n")
	}

	if snap.Status != nil {
		fmt.Fprintf(&b, "Latest: %g | Target: %g | %s\n",
			snap.Status.Current, snap.Status.Target,
			statusStyle(snap.Status.Status).Render(strings.ToUpper(string(snap.Status.Status))))
	}
	return b.String()
}

func (m Model) feedbackView(snap *dashboard.Snapshot) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Metric Definitions"))
	b.WriteString("\n")
	for _, def := range snap.Definitions {
		fmt.Fprintf(&b, "%s: %s\n", lipgloss.NewStyle().Bold(true).Render(string(def.Name)), def.Description)
	}

	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Select Metrics for Evaluation"))
	b.WriteString("\n")
	for _, q := range guidingQuestions {
		b.WriteString(dimStyle.Render("  - " + q))
		b.WriteString("\n")
	}

	valuable := m.selectionColumn(snap, dashboard.SelectionValuable, "Valuable Metrics (Pick 3)")
	notValuable := m.selectionColumn(snap, dashboard.SelectionNotValuable, "Not Valuable Metrics (Pick 3)")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, valuable, "    ", notValuable))
	b.WriteString("\n\n")

	b.WriteString("Justification:\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	if snap.SubmittingFeedback {
		b.WriteString(dimStyle.Render("Submitting..."))
	} else {
		b.WriteString(dimStyle.Render("enter: submit feedback"))
	}
	return b.String()
}

func (m Model) selectionColumn(snap *dashboard.Snapshot, sel dashboard.Selection, title string) string {
	picked := snap.Valuable
	if sel == dashboard.SelectionNotValuable {
		picked = snap.NotValuable
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Underline(true).Render(title))
	b.WriteString("\n")
	for i, name := range snap.Definitions.Names() {
		box := "[ ]"
		for _, p := range picked {
			if p == name {
				box = "[x]"
			}
		}
		line := box + " " + string(name)
		if m.pane == paneFeedback && m.fbColumn == sel && m.fbCursor == i {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) riskView(snap *dashboard.Snapshot) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Risk Matrix"))
	b.WriteString("\n")
	b.WriteString(m.matrixView(snap.Matrix))
	b.WriteString("\n")
	if snap.Matrix != nil {
		for _, r := range snap.Matrix.Skipped {
			b.WriteString(dimStyle.Render(fmt.Sprintf("not placed: %s (likelihood %d, impact %d)", r.ID, r.Likelihood, r.Impact)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Add Risk to Matrix"))
	b.WriteString("\n")

	form := snap.RiskForm
	choice := "Select Risk"
	if form.RiskID != "" {
		choice = string(form.RiskID)
		if p, ok := model.FindPredefinedRisk(snap.Predefined, form.RiskID); ok {
			choice = fmt.Sprintf("%s - %s", p.ID, p.Description)
		}
	}
	fields := []string{
		m.formField(fieldRisk, "Risk", choice),
		m.formField(fieldLikelihood, "Likelihood", orDash(form.Likelihood)),
		m.formField(fieldImpact, "Impact", orDash(form.Impact)),
	}
	b.WriteString(strings.Join(fields, "  "))
	b.WriteString("\n")

	switch {
	case snap.SubmittingRisk:
		b.WriteString(dimStyle.Render("Submitting..."))
	case snap.CanSubmitRisk:
		b.WriteString(noticeStyle.Render("enter: add risk"))
	default:
		b.WriteString(dimStyle.Render("choose a risk, likelihood and impact"))
	}
	return b.String()
}

func (m Model) formField(f riskField, label, value string) string {
	text := label + ": " + value
	if m.pane == paneRisk && m.riskField == f {
		return selectedStyle.Render("<" + text + ">")
	}
	return text
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// matrixView draws likelihood rows from 5 down to 1 against impact columns 1 to 5
func (m Model) matrixView(matrix *model.RiskMatrix) string {
	if matrix == nil {
		matrix = model.NewRiskMatrix(nil)
	}

	header := []string{cellStyle.Render("L \\ I")}
	for i := 1; i <= model.MatrixSize; i++ {
		header = append(header, cellStyle.Render(fmt.Sprintf("Impact %d", i)))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	for l := model.MatrixSize; l >= 1; l-- {
		row := []string{cellStyle.Render(fmt.Sprintf("Likelihood %d", l))}
		for i := 1; i <= model.MatrixSize; i++ {
			cell := matrix.Cell(types.Likelihood(l), types.Impact(i))
			ids := make([]string, 0, len(cell.Risks))
			for _, r := range cell.Risks {
				ids = append(ids, string(r.ID))
			}
			row = append(row, severityStyle(cell.Severity).Render(strings.Join(ids, "\n")))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
