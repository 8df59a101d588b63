package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var catalogCfg config.Catalog

	return &cli.Command{
		Name:  "validate",
		Usage: "Validate a catalog file",
		Flags: catalogCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			data, err := catalogCfg.Load()
			if err != nil {
				return goerr.Wrap(err, "catalog validation failed")
			}

			_, _ = fmt.Fprintf(c.Root().Writer, "catalog is valid: %d metrics, %d series, %d targets, %d risks, %d predefined risks\n",
				len(data.Definitions),
				len(data.Dataset.Series),
				len(data.Dataset.Targets),
				len(data.Dataset.Risks),
				len(data.Dataset.Predefined),
			)
			return nil
		},
	}
}
