package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/cli/config"
	"github.com/secmon-lab/qaboard/pkg/controller/tui"
	"github.com/secmon-lab/qaboard/pkg/dashboard"
	"github.com/secmon-lab/qaboard/pkg/service/chart"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdTUI(loggerCfg *config.Logger, closer *func()) *cli.Command {
	var clientCfg config.Client

	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"t"},
		Usage:   "Open the interactive terminal dashboard",
		Flags:   clientCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			// Logs written to the terminal would corrupt the screen
			switch loggerCfg.Output() {
			case "stdout", "stderr", "-", "":
				path := filepath.Join(os.TempDir(), "qaboard-tui.log")
				logging.Default().Info("Writing logs to file while the TUI runs", "path", path)
				loggerCfg.SetOutput(path)
				if *closer != nil {
					(*closer)()
				}
				f, err := loggerCfg.Configure()
				if err != nil {
					return goerr.Wrap(err, "failed to redirect logs")
				}
				*closer = f
			}

			client, err := clientCfg.Configure()
			if err != nil {
				return err
			}

			ctrl := dashboard.New(client, dashboard.WithRenderer(chart.NewText()))
			ctx = logging.With(ctx, logging.Default())
			if err := tui.Run(ctx, ctrl); err != nil {
				return goerr.Wrap(err, "terminal UI failed")
			}
			return nil
		},
	}
}
