package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/cli/config"
	httpctrl "github.com/secmon-lab/qaboard/pkg/controller/http"
	"github.com/secmon-lab/qaboard/pkg/service/metrics"
	"github.com/secmon-lab/qaboard/pkg/usecase"
	"github.com/secmon-lab/qaboard/pkg/utils/async"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var allowedOrigins []string
	var idempotencyTTL time.Duration
	var enableMetrics bool
	var repoCfg config.Repository
	var catalogCfg config.Catalog
	var slackCfg config.Slack
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":5000",
			Sources:     cli.EnvVars("QABOARD_ADDR"),
			Destination: &addr,
		},
		&cli.StringSliceFlag{
			Name:        "allowed-origin",
			Usage:       "Origin allowed by CORS (repeatable, * for any)",
			Sources:     cli.EnvVars("QABOARD_ALLOWED_ORIGINS"),
			Destination: &allowedOrigins,
		},
		&cli.DurationFlag{
			Name:        "idempotency-ttl",
			Usage:       "How long a response to an Idempotency-Key is replayed",
			Value:       httpctrl.DefaultIdempotencyTTL,
			Sources:     cli.EnvVars("QABOARD_IDEMPOTENCY_TTL"),
			Destination: &idempotencyTTL,
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics on /metrics",
			Value:       true,
			Sources:     cli.EnvVars("QABOARD_METRICS"),
			Destination: &enableMetrics,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the dashboard API server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			logger.Info("Configuration",
				"repository", repoCfg,
				"catalog", catalogCfg,
				"slack", slackCfg,
				"sentry", sentryCfg,
			)

			flush, err := sentryCfg.Configure(c.Root().Version)
			if err != nil {
				return err
			}
			defer flush()

			catalog, err := catalogCfg.Load()
			if err != nil {
				return goerr.Wrap(err, "failed to load catalog")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			m := metrics.New()
			var dispatcher async.Dispatcher
			ucOpts := []usecase.Option{
				usecase.WithMetricDefinitions(catalog.Definitions),
				usecase.WithRecorder(m),
				usecase.WithDispatcher(&dispatcher),
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return err
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
				logger.Info("Slack risk notifications enabled")
			}

			uc := usecase.New(repo, ucOpts...)

			if catalogCfg.Seed() {
				if err := uc.Seed(ctx, catalog.Dataset); err != nil {
					return goerr.Wrap(err, "failed to seed repository")
				}
			}

			httpOpts := []httpctrl.Options{
				httpctrl.WithIdempotencyTTL(idempotencyTTL),
			}
			if enableMetrics {
				httpOpts = append(httpOpts, httpctrl.WithMetrics(m))
			}
			if len(allowedOrigins) > 0 {
				httpOpts = append(httpOpts, httpctrl.WithAllowedOrigins(allowedOrigins))
			}

			var handler http.Handler = httpctrl.New(uc, httpOpts...)
			if sentryCfg.IsConfigured() {
				handler = sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(handler)
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr, "metrics", enableMetrics)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)
			case <-ctx.Done():
				logger.Info("Context cancelled")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			// Pending notifications still hold the repository
			dispatcher.Wait()
			logger.Info("Server shutdown completed")
			return nil
		},
	}
}
