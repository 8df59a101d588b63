package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/service/api"
	"github.com/urfave/cli/v3"
)

// Client holds flags for commands that talk to a running qaboard server
type Client struct {
	baseURL string
	timeout time.Duration
	retries int
}

func (x *Client) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-url",
			Usage:       "Base URL of the qaboard API",
			Category:    "API",
			Value:       "http://localhost:5000",
			Sources:     cli.EnvVars("QABOARD_API_URL"),
			Destination: &x.baseURL,
		},
		&cli.DurationFlag{
			Name:        "api-timeout",
			Usage:       "Timeout of one API request",
			Category:    "API",
			Value:       10 * time.Second,
			Sources:     cli.EnvVars("QABOARD_API_TIMEOUT"),
			Destination: &x.timeout,
		},
		&cli.IntFlag{
			Name:        "api-retries",
			Usage:       "Retries of a failed submission (reads are never retried)",
			Category:    "API",
			Value:       2,
			Sources:     cli.EnvVars("QABOARD_API_RETRIES"),
			Destination: &x.retries,
		},
	}
}

func (x Client) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", x.baseURL),
		slog.Duration("timeout", x.timeout),
		slog.Int("retries", x.retries),
	)
}

// Configure builds the API client
func (x *Client) Configure() (*api.Client, error) {
	if x.retries < 0 {
		return nil, goerr.Wrap(ErrInvalidConfig, "api-retries must not be negative", goerr.V("retries", x.retries))
	}
	client, err := api.New(x.baseURL,
		api.WithTimeout(x.timeout),
		api.WithRetries(x.retries),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create API client", goerr.V("base_url", x.baseURL))
	}
	return client, nil
}
