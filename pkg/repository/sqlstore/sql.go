package sqlstore

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	_ "modernc.org/sqlite"
)

// Supported driver names
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know by default
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Store keeps datasets in a relational database through sqlx
type Store struct {
	db *sqlx.DB

	kpi      *kpiRepository
	risk     *riskRepository
	feedback *feedbackRepository
}

var _ interfaces.Repository = &Store{}

// New connects to the database and applies the schema
func New(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, goerr.New("unsupported SQL driver", goerr.V("driver", driver))
	}
	if dsn == "" {
		return nil, goerr.New("SQL DSN is required", goerr.V("driver", driver))
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect database", goerr.V("driver", driver))
	}
	if driver == DriverSQLite {
		// SQLite allows a single writer; serialize through one connection
		db.SetMaxOpenConns(1)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to migrate database", goerr.V("driver", driver))
	}

	return &Store{
		db:       db,
		kpi:      &kpiRepository{db: db},
		risk:     &riskRepository{db: db},
		feedback: &feedbackRepository{db: db},
	}, nil
}

func (s *Store) KPI() interfaces.KPIRepository {
	return s.kpi
}

func (s *Store) Risk() interfaces.RiskRepository {
	return s.risk
}

func (s *Store) Feedback() interfaces.FeedbackRepository {
	return s.feedback
}

func (s *Store) Close() error {
	return s.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS kpi_samples (
		metric TEXT NOT NULL,
		sprint INTEGER NOT NULL,
		value DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (metric, sprint)
	)`,
	`CREATE TABLE IF NOT EXISTS kpi_targets (
		metric TEXT PRIMARY KEY,
		target DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS risks (
		id TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		likelihood INTEGER NOT NULL,
		impact INTEGER NOT NULL,
		seq BIGINT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS predefined_risks (
		id TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		position INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id TEXT PRIMARY KEY,
		valuable TEXT NOT NULL,
		not_valuable TEXT NOT NULL,
		justification TEXT NOT NULL,
		submitted_at BIGINT NOT NULL,
		received_at BIGINT NOT NULL
	)`,
}

func migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to apply schema", goerr.V("statement", stmt))
		}
	}
	return nil
}

// inTx runs fn in a transaction and commits when it returns nil
func inTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// Truncate removes every row from every table
func Truncate(ctx context.Context, s *Store) error {
	for _, table := range []string{"kpi_samples", "kpi_targets", "risks", "predefined_risks", "feedback"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return goerr.Wrap(err, "failed to truncate table", goerr.V("table", table))
		}
	}
	return nil
}

// isUniqueViolation detects a primary key conflict on either driver
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
