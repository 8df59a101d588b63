package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/cli/config"
	"github.com/secmon-lab/qaboard/pkg/dashboard"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
	"github.com/secmon-lab/qaboard/pkg/service/chart"
	"github.com/urfave/cli/v3"
)

var (
	statusColor = map[types.Status]*color.Color{
		types.StatusGreen: color.New(color.FgGreen, color.Bold),
		types.StatusRed:   color.New(color.FgRed, color.Bold),
	}
	severityColor = map[types.Severity]*color.Color{
		types.SeverityGreen:  color.New(color.BgGreen, color.FgBlack),
		types.SeverityYellow: color.New(color.BgYellow, color.FgBlack),
		types.SeverityOrange: color.New(color.BgHiRed, color.FgBlack),
		types.SeverityRed:    color.New(color.BgRed, color.FgWhite),
	}
	headingColor = color.New(color.FgCyan, color.Bold)
)

func cmdView() *cli.Command {
	var clientCfg config.Client
	var metric string
	var noColor bool

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "metric",
			Aliases:     []string{"m"},
			Usage:       "Metric to chart",
			Value:       string(types.DefaultMetric),
			Destination: &metric,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable colored output",
			Sources:     cli.EnvVars("NO_COLOR"),
			Destination: &noColor,
		},
	}
	flags = append(flags, clientCfg.Flags()...)

	return &cli.Command{
		Name:    "view",
		Aliases: []string{"v"},
		Usage:   "Print the dashboard once",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if noColor {
				color.NoColor = true
			}

			client, err := clientCfg.Configure()
			if err != nil {
				return err
			}

			ctrl := dashboard.New(client, dashboard.WithRenderer(chart.NewText()))
			defer func() { _ = ctrl.Close(ctx) }()

			// A failed slot is reported in the output, not as a command failure
			_ = ctrl.Load(ctx)

			w := c.Root().Writer
			if w == nil {
				w = os.Stdout
			}
			return printDashboard(ctx, w, ctrl, types.MetricName(metric))
		},
	}
}

func printDashboard(ctx context.Context, w io.Writer, ctrl *dashboard.Controller, selected types.MetricName) error {
	snap := ctrl.Snapshot()
	for _, d := range snap.Failed() {
		_, _ = color.New(color.FgRed).Fprintf(w, "failed to load %s: %v\n", d, snap.Slots[d].Err)
	}

	_, _ = headingColor.Fprintln(w, "KPI Status")
	for _, m := range snap.Metrics {
		if err := ctrl.SelectMetric(ctx, m); err != nil {
			return goerr.Wrap(err, "failed to select metric", goerr.V(model.MetricKey, m))
		}
		report, ok := ctrl.Status()
		if !ok {
			_, _ = fmt.Fprintf(w, "  %-20s no target\n", m)
			continue
		}
		_, _ = fmt.Fprintf(w, "  %-20s Latest: %-8g Target: %-8g %s\n",
			m, report.Current, report.Target,
			statusColor[report.Status].Sprint(strings.ToUpper(report.Status.String())))
	}
	_, _ = fmt.Fprintln(w)

	if len(snap.Metrics) > 0 {
		if err := ctrl.SelectMetric(ctx, selected); err != nil {
			return goerr.Wrap(err, "cannot chart metric", goerr.V(model.MetricKey, selected))
		}
		_, _ = headingColor.Fprintf(w, "KPI Trend: %s\n", selected)
		if tv, ok := ctrl.Snapshot().ChartHandle.(interface{ View() string }); ok {
			_, _ = fmt.Fprintln(w, tv.View())
		} else {
			_, _ = fmt.Fprintln(w, "  no target set; chart not drawn")
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = headingColor.Fprintln(w, "Risk Matrix (likelihood × impact)")
	printMatrix(w, ctrl.Matrix())
	_, _ = fmt.Fprintln(w)

	_, _ = headingColor.Fprintln(w, "Available Risks")
	if len(snap.Predefined) == 0 {
		_, _ = fmt.Fprintln(w, "  none")
	}
	for _, p := range snap.Predefined {
		_, _ = fmt.Fprintf(w, "  %-6s %s\n", p.ID, p.Description)
	}
	return nil
}

const matrixCellWidth = 12

func printMatrix(w io.Writer, m *model.RiskMatrix) {
	_, _ = fmt.Fprintf(w, "%-6s", "L\\I")
	for i := 1; i <= model.MatrixSize; i++ {
		_, _ = fmt.Fprintf(w, " %-*d", matrixCellWidth, i)
	}
	_, _ = fmt.Fprintln(w)

	for l := model.MatrixSize; l >= 1; l-- {
		_, _ = fmt.Fprintf(w, "%-6d", l)
		for i := 1; i <= model.MatrixSize; i++ {
			cell := m.Cell(types.Likelihood(l), types.Impact(i))
			ids := make([]string, 0, len(cell.Risks))
			for _, r := range cell.Risks {
				ids = append(ids, string(r.ID))
			}
			text := strings.Join(ids, ",")
			if len(text) > matrixCellWidth {
				text = text[:matrixCellWidth-1] + "~"
			}
			_, _ = fmt.Fprint(w, " ")
			_, _ = severityColor[cell.Severity].Fprintf(w, "%-*s", matrixCellWidth, text)
		}
		_, _ = fmt.Fprintln(w)
	}

	for _, r := range m.Skipped {
		_, _ = fmt.Fprintf(w, "not placed: %s (likelihood %d, impact %d)\n", r.ID, r.Likelihood, r.Impact)
	}
}
