package migration

import (
	"context"
	"database/sql"

	"careerpath/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type step struct {
	name  string
	query string
}

var steps = []step{
	{
		name: "create predictions table",
		query: `
		CREATE TABLE IF NOT EXISTS predictions (
			id UUID PRIMARY KEY,
			session_id UUID,
			label VARCHAR(255) NOT NULL,
			model_version VARCHAR(64) NOT NULL,
			answers JSONB,
			encoded JSONB,
			notice_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
	},
	{
		name:  "create predictions created_at index",
		query: `CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at DESC)`,
	},
	{
		name:  "create predictions session index",
		query: `CREATE INDEX IF NOT EXISTS idx_predictions_session_id ON predictions(session_id)`,
	},
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	return r.run(ctx, db)
}

func (r *MigrationRunner) run(ctx context.Context, db execer) error {
	for _, s := range steps {
		if _, err := db.ExecContext(ctx, s.query); err != nil {
			return errors.DatabaseError("failed to "+s.name, err)
		}
	}
	return nil
}
