package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/cli/config"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
	"github.com/secmon-lab/dcrisk/pkg/usecase"
	"github.com/secmon-lab/dcrisk/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// practiceEnv is what the practice subcommands share
type practiceEnv struct {
	catalog config.Catalog
	repo    config.Repository
	user    string
}

func (x *practiceEnv) flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User whose implementation state is read and written",
			Required:    true,
			Sources:     cli.EnvVars("DCRISK_USER"),
			Destination: &x.user,
		},
	}
	flags = append(flags, x.catalog.Flags()...)
	flags = append(flags, x.repo.Flags()...)
	return flags
}

// open builds the practice use case. The returned closer releases the repository.
func (x *practiceEnv) open(ctx context.Context) (*usecase.PracticeUseCase, func(), error) {
	catalog, err := x.catalog.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load catalog")
	}
	repo, err := x.repo.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize repository")
	}

	closer := func() { safe.Close(ctx, repo) }

	uc := usecase.New(catalog, usecase.WithPreferenceRepository(repo))
	return uc.Practice, closer, nil
}

func cmdPractice() *cli.Command {
	return &cli.Command{
		Name:  "practice",
		Usage: "Inspect and track implemented best practices",
		Commands: []*cli.Command{
			cmdPracticeList(),
			cmdPracticeToggle(),
		},
	}
}

func cmdPracticeList() *cli.Command {
	var env practiceEnv
	var query string

	flags := env.flags()
	flags = append(flags, &cli.StringFlag{
		Name:        "query",
		Aliases:     []string{"q"},
		Usage:       "Filter by title, description or category",
		Destination: &query,
	})

	return &cli.Command{
		Name:  "list",
		Usage: "List best practices with their implementation state",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			userID := types.UserID(env.user)
			states, err := uc.List(ctx, userID, query)
			if err != nil {
				return err
			}
			progress, err := uc.Progress(ctx, userID)
			if err != nil {
				return err
			}

			w := outputOf(c)
			done := color.New(color.FgGreen)
			for _, s := range states {
				mark := "[ ]"
				if s.Implemented {
					mark = done.Sprint("[x]")
				}
				fmt.Fprintf(w, "%s %-6s %s (%s)\n", mark, s.ID, s.Title, usecase.CategoryInfoOf(s.Category).Label)
			}
			fmt.Fprintf(w, "\n%d of %d implemented\n", progress.Implemented, progress.Total)
			return nil
		},
	}
}

func cmdPracticeToggle() *cli.Command {
	var env practiceEnv

	return &cli.Command{
		Name:      "toggle",
		Usage:     "Flip the implemented state of a best practice",
		ArgsUsage: "<practice-id>",
		Flags:     env.flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("exactly one practice id is required", goerr.V("args", c.Args().Slice()))
			}
			id := types.PracticeID(c.Args().First())

			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			implemented, err := uc.Toggle(ctx, types.UserID(env.user), id)
			if err != nil && !errors.Is(err, usecase.ErrPersistFailed) {
				return err
			}

			state := "not implemented"
			if implemented {
				state = "implemented"
			}
			fmt.Fprintf(outputOf(c), "%s is now %s\n", id, state)

			// a failed write leaves the state unsaved once the process exits
			return err
		},
	}
}
