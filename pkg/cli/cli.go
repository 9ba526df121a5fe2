package cli

import (
	"context"

	"github.com/secmon-lab/dcrisk/pkg/cli/config"
	"github.com/secmon-lab/dcrisk/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closer func()
	var flush func()

	flags := loggerCfg.Flags()
	flags = append(flags, sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "dcrisk",
		Usage:   "AI data center risk catalog",
		Version: version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f
			logging.SetDefault(logger)

			if flush, err = sentryCfg.Configure(version); err != nil {
				return ctx, err
			}

			logger.Debug("Starting dcrisk", "logger", loggerCfg, "sentry", sentryCfg)
			return logging.With(ctx, logger), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if flush != nil {
				flush()
			}
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdValidate(),
			cmdShow(),
			cmdPractice(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
