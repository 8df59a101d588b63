package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/cli/config"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
	"github.com/secmon-lab/qaboard/pkg/service/chart"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"gonum.org/v1/plot/vg"
)

func cmdChart() *cli.Command {
	var clientCfg config.Client
	var metric string
	var output string
	var width, height float64

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "metric",
			Aliases:     []string{"m"},
			Usage:       "Metric to chart",
			Value:       string(types.DefaultMetric),
			Destination: &metric,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "PNG file to write",
			Value:       "kpi.png",
			Destination: &output,
		},
		&cli.FloatFlag{
			Name:        "width",
			Usage:       "Image width in points",
			Value:       600,
			Destination: &width,
		},
		&cli.FloatFlag{
			Name:        "height",
			Usage:       "Image height in points",
			Value:       400,
			Destination: &height,
		},
	}
	flags = append(flags, clientCfg.Flags()...)

	return &cli.Command{
		Name:  "chart",
		Usage: "Render the KPI trend of one metric to a PNG file",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := clientCfg.Configure()
			if err != nil {
				return err
			}

			name := types.MetricName(metric)
			if err := name.Validate(); err != nil {
				return goerr.Wrap(err, "invalid metric")
			}

			series, err := client.FetchKPISeries(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to fetch KPI series")
			}
			targets, err := client.FetchKPITargets(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to fetch KPI targets")
			}

			cfg, ok := model.NewKPIChart(series, targets, name)
			if !ok {
				return goerr.New("no KPI series for metric", goerr.V(model.MetricKey, name))
			}

			renderer := chart.NewPNG(chart.WithPNGSize(vg.Points(width), vg.Points(height)))
			img, err := renderer.RenderPNG(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = img.Dispose() }()

			if err := img.Save(ctx, output); err != nil {
				return err
			}
			logging.From(ctx).Info("Chart written", "metric", name, "path", output)
			return nil
		},
	}
}
