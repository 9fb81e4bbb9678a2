package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/db/migrations"
	"github.com/fadedpez/cardlab/pkg/entities"
	_ "github.com/mattn/go-sqlite3"
)

const runColumns = `id, kind, params, result, mean, seed, failed, error, duration_ns, created_at`

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the database at dbPath and applies migrations
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if _, err := migrations.NewMigrator(db).Quiet().MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveRun stores a run
func (r *SQLiteRepository) SaveRun(ctx context.Context, run *entities.ExperimentRun) error {
	if run == nil || run.ID == "" {
		return types.NewError(types.ErrInvalidArgument, "run must have an ID")
	}

	query := `
		INSERT INTO experiment_runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id)
		DO UPDATE SET kind = excluded.kind, params = excluded.params, result = excluded.result,
			mean = excluded.mean, seed = excluded.seed, failed = excluded.failed,
			error = excluded.error, duration_ns = excluded.duration_ns, created_at = excluded.created_at`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		string(run.Kind),
		string(run.Params),
		nullableJSON(run.Result),
		run.Mean,
		run.Seed,
		run.Failed,
		run.Error,
		int64(run.Duration),
		run.CreatedAt.UTC(),
	)
	if err != nil {
		return types.WrapError(types.ErrDatabaseError, "saving run "+run.ID, err)
	}
	return nil
}

// GetRun retrieves a run by ID
func (r *SQLiteRepository) GetRun(ctx context.Context, id string) (*entities.ExperimentRun, error) {
	query := `SELECT ` + runColumns + ` FROM experiment_runs WHERE id = ?`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.Errorf(types.ErrNotFound, "run %s not found", id)
	}
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "loading run "+id, err)
	}
	return run, nil
}

// ListRuns returns runs newest first
func (r *SQLiteRepository) ListRuns(ctx context.Context, kind entities.ExperimentKind, limit int) ([]*entities.ExperimentRun, error) {
	query := `SELECT ` + runColumns + ` FROM experiment_runs`
	var args []interface{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "listing runs", err)
	}
	defer rows.Close()

	runs := []*entities.ExperimentRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, types.WrapError(types.ErrDatabaseError, "scanning run", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "listing runs", err)
	}
	return runs, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*entities.ExperimentRun, error) {
	var (
		run        entities.ExperimentRun
		kind       string
		params     string
		result     sql.NullString
		seed       sql.NullInt64
		errText    sql.NullString
		durationNS int64
		createdAt  time.Time
	)

	err := row.Scan(&run.ID, &kind, &params, &result, &run.Mean, &seed, &run.Failed, &errText, &durationNS, &createdAt)
	if err != nil {
		return nil, err
	}

	run.Kind = entities.ExperimentKind(kind)
	run.Params = []byte(params)
	if result.Valid {
		run.Result = []byte(result.String)
	}
	run.Seed = seed.Int64
	run.Error = errText.String
	run.Duration = time.Duration(durationNS)
	run.CreatedAt = createdAt
	return &run, nil
}

func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
