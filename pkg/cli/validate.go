package cli

import (
	"context"
	"runtime"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/cli/config"
	"github.com/secmon-lab/dcrisk/pkg/domain/model"
	"github.com/secmon-lab/dcrisk/pkg/usecase"
	"github.com/secmon-lab/dcrisk/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func cmdValidate() *cli.Command {
	var catalogCfg config.Catalog

	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Validate catalog definitions",
		ArgsUsage: "[file ...]",
		Flags:     catalogCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.From(ctx)

			paths := c.Args().Slice()
			if len(paths) == 0 {
				catalog, err := catalogCfg.Configure(ctx)
				if err != nil {
					return goerr.Wrap(err, "catalog validation failed", goerr.V(config.CatalogSourceKey, catalogCfg.Source()))
				}
				return reportCatalog(ctx, catalogCfg.Source(), catalog)
			}

			errs := make([]error, len(paths))
			var eg errgroup.Group
			eg.SetLimit(runtime.NumCPU())
			for i, path := range paths {
				eg.Go(func() error {
					catalog, err := config.LoadCatalogFile(ctx, path)
					if err != nil {
						errs[i] = err
						return nil
					}
					errs[i] = reportCatalog(ctx, path, catalog)
					return nil
				})
			}
			_ = eg.Wait()

			var failed int
			for i, err := range errs {
				if err != nil {
					failed++
					logger.Error("Catalog is invalid", "path", paths[i], "error", err)
				}
			}
			if failed > 0 {
				return goerr.New("catalog validation failed", goerr.V("failed", failed), goerr.V("total", len(paths)))
			}
			return nil
		},
	}
}

// reportCatalog logs what a parsed catalog contains. It fails when a risk cannot be
// placed on the matrix.
func reportCatalog(ctx context.Context, source string, catalog *model.Catalog) error {
	uc := usecase.NewCatalogUseCase(catalog)
	if _, err := uc.Matrix(); err != nil {
		return err
	}

	if source == "" {
		source = "built-in"
	}
	logging.From(ctx).Info("Catalog validation passed",
		"source", source,
		"version", catalog.Version(),
		"risks", catalog.RiskCount(),
		"monitoring_tools", len(catalog.MonitoringTools()),
		"best_practices", catalog.BestPracticeCount(),
		"dangling_references", len(catalog.DanglingReferences()),
	)
	return nil
}
