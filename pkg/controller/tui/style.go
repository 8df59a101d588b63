package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
)

var (
	appStyle   = lipgloss.NewStyle().Margin(1, 2)
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("228")).
			Padding(0, 1)
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	activePaneStyle = paneStyle.
			BorderForeground(lipgloss.Color("63"))
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cellStyle     = lipgloss.NewStyle().Width(14).Height(2).Padding(0, 1)
)

var statusColors = map[types.Status]lipgloss.Color{
	types.StatusGreen: lipgloss.Color("34"),
	types.StatusRed:   lipgloss.Color("196"),
}

var severityColors = map[types.Severity]lipgloss.Color{
	types.SeverityGreen:  lipgloss.Color("28"),
	types.SeverityYellow: lipgloss.Color("178"),
	types.SeverityOrange: lipgloss.Color("208"),
	types.SeverityRed:    lipgloss.Color("160"),
}

func statusStyle(s types.Status) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(statusColors[s])
}

func severityStyle(s types.Severity) lipgloss.Style {
	return cellStyle.
		Background(severityColors[s]).
		Foreground(lipgloss.Color("0"))
}
