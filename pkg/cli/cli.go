package cli

import (
	"context"

	"github.com/secmon-lab/qaboard/pkg/cli/config"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Run parses args and dispatches to a qaboard subcommand. The global logger is
// installed before any subcommand runs; tui may redirect it afterwards.
func Run(ctx context.Context, args []string, version string) error {
	var (
		loggerCfg config.Logger
		closeLog  func()
	)

	app := &cli.Command{
		Name:    "qaboard",
		Usage:   "QA KPI and risk matrix dashboard",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closeLog = f

			logging.Default().Debug("qaboard configured",
				"version", version,
				"command", c.Args().First(),
				"logger", loggerCfg,
			)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closeLog != nil {
				closeLog()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdTUI(&loggerCfg, &closeLog),
			cmdView(),
			cmdChart(),
			cmdValidate(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("qaboard exited with error", "error", err)
		return err
	}
	return nil
}
