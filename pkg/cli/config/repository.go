package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/domain/interfaces"
	"github.com/secmon-lab/dcrisk/pkg/repository/firestore"
	"github.com/secmon-lab/dcrisk/pkg/repository/memory"
	"github.com/secmon-lab/dcrisk/pkg/repository/redis"
	"github.com/secmon-lab/dcrisk/pkg/repository/sqlite"
	"github.com/secmon-lab/dcrisk/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository holds CLI flags for the user preference backend
type Repository struct {
	backend    string
	projectID  string
	databaseID string
	redisURL   string
	sqlitePath string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Preference backend type (memory, firestore, redis or sqlite)",
			Category:    "Repository",
			Value:       "memory",
			Sources:     cli.EnvVars("DCRISK_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("DCRISK_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("DCRISK_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "redis-url",
			Usage:       "Redis URL such as redis://localhost:6379/0 (required when using redis backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("DCRISK_REDIS_URL"),
			Destination: &r.redisURL,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "SQLite database file (required when using sqlite backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("DCRISK_SQLITE_PATH"),
			Destination: &r.sqlitePath,
		},
	}
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("firestore-project-id", r.projectID),
		slog.String("firestore-database-id", r.databaseID),
		slog.Int("redis-url.len", len(r.redisURL)),
		slog.String("sqlite-path", r.sqlitePath),
	)
}

// Configure initializes and returns a preference repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.PreferenceRepository, error) {
	switch r.backend {
	case "", "memory":
		logging.Default().Info("Using in-memory preference repository (development mode)")
		return memory.New(), nil

	case "firestore":
		if r.projectID == "" {
			return nil, goerr.New("firestore-project-id is required when using firestore backend")
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore preference repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	case "redis":
		if r.redisURL == "" {
			return nil, goerr.New("redis-url is required when using redis backend")
		}
		repo, err := redis.New(ctx, r.redisURL)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize redis repository")
		}
		logging.Default().Info("Using Redis preference repository")
		return repo, nil

	case "sqlite":
		if r.sqlitePath == "" {
			return nil, goerr.New("sqlite-path is required when using sqlite backend")
		}
		repo, err := sqlite.New(ctx, r.sqlitePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize sqlite repository")
		}
		logging.Default().Info("Using SQLite preference repository", "path", r.sqlitePath)
		return repo, nil

	default:
		return nil, goerr.New("invalid repository backend", goerr.V("backend", r.backend))
	}
}
