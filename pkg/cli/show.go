package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/cli/config"
	"github.com/secmon-lab/dcrisk/pkg/domain/model"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
	"github.com/secmon-lab/dcrisk/pkg/usecase"
	"github.com/urfave/cli/v3"
)

var (
	headingColor = color.New(color.Bold, color.Underline)
	severityText = map[types.Severity]*color.Color{
		types.SeverityCritical: color.New(color.FgRed, color.Bold),
		types.SeverityHigh:     color.New(color.FgYellow),
		types.SeverityMedium:   color.New(color.FgCyan),
		types.SeverityLow:      color.New(color.FgHiBlack),
	}
	quadrantText = map[types.QuadrantName]*color.Color{
		types.QuadrantCriticalAction:    color.New(color.FgRed, color.Bold),
		types.QuadrantAttentionRequired: color.New(color.FgYellow),
		types.QuadrantMonitor:           color.New(color.FgCyan),
		types.QuadrantLowPriority:       color.New(color.FgHiBlack),
	}
)

// outputOf returns where a command prints its report
func outputOf(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func cmdShow() *cli.Command {
	var catalogCfg config.Catalog
	var minDegree int
	var limit int
	var noColor bool

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "min-interconnections",
			Usage:       "Interconnection count that makes a risk a key risk",
			Value:       3,
			Destination: &minDegree,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of key risks to print (0 for all)",
			Value:       6,
			Destination: &limit,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable colored output",
			Sources:     cli.EnvVars("NO_COLOR"),
			Destination: &noColor,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)

	return &cli.Command{
		Name:  "show",
		Usage: "Print catalog summary, risk matrix and key interconnections",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if noColor {
				color.NoColor = true
			}

			catalog, err := catalogCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to load catalog")
			}
			uc := usecase.NewCatalogUseCase(catalog)

			w := outputOf(c)
			if err := printSummary(w, uc); err != nil {
				return err
			}
			if err := printMatrix(w, uc); err != nil {
				return err
			}
			return printKeyRisks(w, uc, minDegree, limit)
		},
	}
}

func printSummary(w io.Writer, uc *usecase.CatalogUseCase) error {
	summary, err := uc.Summary()
	if err != nil {
		return err
	}
	catalog := uc.Catalog()

	_, _ = headingColor.Fprintf(w, "Catalog %s\n", catalog.Version())
	fmt.Fprintf(w, "  Risks:           %d\n", summary.TotalRisks)
	fmt.Fprintf(w, "  Critical:        %s\n", severityText[types.SeverityCritical].Sprint(summary.CriticalRisks))
	fmt.Fprintf(w, "  High:            %s\n", severityText[types.SeverityHigh].Sprint(summary.HighRisks))
	fmt.Fprintf(w, "  Active alerts:   %d\n", summary.ActiveAlerts)
	fmt.Fprintf(w, "  Best practices:  %d\n", catalog.BestPracticeCount())
	for _, t := range []types.RiskType{types.RiskTypeTechnical, types.RiskTypeBusiness, types.RiskTypeOperational} {
		fmt.Fprintf(w, "  %-16s %d\n", t.String()+":", summary.ByType[t])
	}
	fmt.Fprintln(w)
	return nil
}

func printMatrix(w io.Writer, uc *usecase.CatalogUseCase) error {
	cells, err := uc.Matrix()
	if err != nil {
		return err
	}

	_, _ = headingColor.Fprintln(w, "Risk matrix")
	for _, cell := range cells {
		_, _ = quadrantText[cell.Quadrant.Name].Fprintf(w, "  %s (%d)\n", cell.Quadrant.Name, len(cell.Risks))
		for _, r := range cell.Risks {
			fmt.Fprintf(w, "    %s %s [L%d/I%d]\n", severityLabel(r.Severity), r.Name, r.Likelihood, r.ImpactScore)
		}
	}
	fmt.Fprintln(w)
	return nil
}

func printKeyRisks(w io.Writer, uc *usecase.CatalogUseCase, minDegree, limit int) error {
	_, _ = headingColor.Fprintln(w, "Key interconnections")

	risks := uc.HighConnectivityRisks(minDegree, limit)
	if len(risks) == 0 {
		fmt.Fprintf(w, "  no risk has %d or more interconnections\n", minDegree)
		return nil
	}

	for _, r := range risks {
		connected, err := uc.InterconnectionsOf(r.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s %s (%d)\n", severityLabel(r.Severity), r.Name, len(r.Interconnections))
		if len(connected) > 0 {
			fmt.Fprintf(w, "    -> %s\n", strings.Join(riskNames(connected, 3), ", "))
		}
	}
	return nil
}

func severityLabel(s types.Severity) string {
	label := fmt.Sprintf("%-8s", s)
	if c, ok := severityText[s]; ok {
		return c.Sprint(label)
	}
	return label
}

func riskNames(risks []*model.Risk, limit int) []string {
	names := make([]string, 0, min(len(risks), limit))
	for _, r := range risks {
		if len(names) == limit {
			break
		}
		names = append(names, r.Name)
	}
	return names
}
