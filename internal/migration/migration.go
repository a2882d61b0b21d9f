package migration

import (
	"context"

	"gochisq/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// Step is one idempotent schema statement
type Step struct {
	Name      string
	Statement string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
	steps   []Step
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
		steps:   evaluationSteps(),
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Steps returns the statements Run executes, in order
func (r *MigrationRunner) Steps() []Step {
	out := make([]Step, len(r.steps))
	copy(out, r.steps)
	return out
}

// Run executes all database migrations in order inside one transaction
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin migration")
	}
	defer tx.Rollback()

	for _, step := range r.steps {
		if _, err := tx.ExecContext(ctx, step.Statement); err != nil {
			return errors.Wrapf(err, "failed to %s", step.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit migration")
	}
	return nil
}

func evaluationSteps() []Step {
	return []Step{
		{
			Name: "create evaluations table",
			Statement: `
				CREATE TABLE IF NOT EXISTS evaluations (
					id UUID PRIMARY KEY,
					test VARCHAR(64) NOT NULL,
					fingerprint VARCHAR(64) NOT NULL,
					alpha DOUBLE PRECISION NOT NULL,
					significant BOOLEAN NOT NULL,
					p_value DOUBLE PRECISION NOT NULL,
					labels TEXT[],
					row_labels TEXT[],
					col_labels TEXT[],
					result JSONB NOT NULL,
					evaluated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
					runtime_ms BIGINT NOT NULL DEFAULT 0
				)
			`,
		},
		{
			Name:      "index evaluations by test",
			Statement: `CREATE INDEX IF NOT EXISTS idx_evaluations_test ON evaluations(test, evaluated_at DESC)`,
		},
		{
			Name:      "index evaluations by fingerprint",
			Statement: `CREATE INDEX IF NOT EXISTS idx_evaluations_fingerprint ON evaluations(fingerprint)`,
		},
		{
			Name:      "index evaluations by time",
			Statement: `CREATE INDEX IF NOT EXISTS idx_evaluations_evaluated_at ON evaluations(evaluated_at DESC)`,
		},
	}
}
