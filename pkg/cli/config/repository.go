package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/repository/file"
	"github.com/secmon-lab/qaboard/pkg/repository/firestore"
	"github.com/secmon-lab/qaboard/pkg/repository/memory"
	"github.com/secmon-lab/qaboard/pkg/repository/sqlstore"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository holds CLI flags for the storage backend
type Repository struct {
	backend          string
	dataDir          string
	sqlDriver        string
	sqlDSN           string
	projectID        string
	databaseID       string
	collectionPrefix string
}

func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (memory, file, sql or firestore)",
			Category:    "Repository",
			Value:       "memory",
			Sources:     cli.EnvVars("QABOARD_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "Directory of JSON data files (file backend)",
			Category:    "Repository",
			Value:       "./data",
			Sources:     cli.EnvVars("QABOARD_DATA_DIR"),
			Destination: &r.dataDir,
		},
		&cli.StringFlag{
			Name:        "sql-driver",
			Usage:       "SQL driver (sqlite or postgres)",
			Category:    "Repository",
			Value:       sqlstore.DriverSQLite,
			Sources:     cli.EnvVars("QABOARD_SQL_DRIVER"),
			Destination: &r.sqlDriver,
		},
		&cli.StringFlag{
			Name:        "sql-dsn",
			Usage:       "SQL data source name, e.g. qaboard.db or postgres://...",
			Category:    "Repository",
			Sources:     cli.EnvVars("QABOARD_SQL_DSN"),
			Destination: &r.sqlDSN,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("QABOARD_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("QABOARD_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix added to every Firestore collection name",
			Category:    "Repository",
			Sources:     cli.EnvVars("QABOARD_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.collectionPrefix,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("data_dir", r.dataDir),
		slog.String("sql_driver", r.sqlDriver),
		slog.Int("sql_dsn.len", len(r.sqlDSN)),
		slog.String("project_id", r.projectID),
		slog.String("database_id", r.databaseID),
	)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// Configure opens the configured backend. The caller closes the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	logger := logging.From(ctx)

	switch r.backend {
	case "memory":
		logger.Info("Using in-memory repository (data is lost on exit)")
		return memory.New(), nil

	case "file":
		repo, err := file.New(r.dataDir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize file repository", goerr.V("dir", r.dataDir))
		}
		logger.Info("Using file repository", "dir", r.dataDir)
		return repo, nil

	case "sql":
		repo, err := sqlstore.New(ctx, r.sqlDriver, r.sqlDSN)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize SQL repository", goerr.V("driver", r.sqlDriver))
		}
		logger.Info("Using SQL repository", "driver", r.sqlDriver)
		return repo, nil

	case "firestore":
		if r.projectID == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "firestore-project-id is required when using firestore backend")
		}
		var opts []firestore.Option
		if r.collectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.collectionPrefix))
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logger.Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid repository backend", goerr.V(BackendKey, r.backend))
	}
}
