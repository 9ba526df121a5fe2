package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/cli/config"
	httpctrl "github.com/secmon-lab/dcrisk/pkg/controller/http"
	"github.com/secmon-lab/dcrisk/pkg/usecase"
	"github.com/secmon-lab/dcrisk/pkg/utils/logging"
	"github.com/secmon-lab/dcrisk/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var addr string
	var secureCookie bool
	var catalogCfg config.Catalog
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("DCRISK_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "secure-cookie",
			Usage:       "Mark the session cookie Secure (enable behind HTTPS)",
			Sources:     cli.EnvVars("DCRISK_SECURE_COOKIE"),
			Destination: &secureCookie,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.From(ctx)

			catalog, err := catalogCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to load catalog")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			uc := usecase.New(catalog, usecase.WithPreferenceRepository(repo))

			handler := httpctrl.New(uc, httpctrl.WithSecureCookie(secureCookie))

			logger.Info("Starting HTTP server",
				"addr", addr,
				"catalog", catalogCfg,
				"repository", repoCfg,
				"catalog_version", catalog.Version(),
				"risks", catalog.RiskCount(),
			)
			return listenAndServe(ctx, addr, handler)
		},
	}
}

// listenAndServe runs the server until ctx is done or SIGINT/SIGTERM arrives, then drains
// in-flight requests for up to shutdownTimeout.
func listenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- goerr.Wrap(err, "failed to start server", goerr.V("addr", addr))
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger := logging.From(ctx)
	logger.Info("Shutting down HTTP server", "cause", context.Cause(ctx))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return goerr.Wrap(err, "failed to shutdown server gracefully")
	}

	logger.Info("Server shutdown completed")
	return nil
}
