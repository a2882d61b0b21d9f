package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gochisq/domain/categorical"
	"gochisq/domain/core"
	"gochisq/ports"
)

// EvaluationRepository implements LedgerPort for PostgreSQL
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository creates a new PostgreSQL evaluation ledger
func NewEvaluationRepository(db *sqlx.DB) ports.LedgerPort {
	return &EvaluationRepository{db: db}
}

// evaluationRow is the evaluations table layout
type evaluationRow struct {
	ID          string         `db:"id"`
	Test        string         `db:"test"`
	Fingerprint string         `db:"fingerprint"`
	Alpha       float64        `db:"alpha"`
	Significant bool           `db:"significant"`
	PValue      float64        `db:"p_value"`
	Labels      pq.StringArray `db:"labels"`
	RowLabels   pq.StringArray `db:"row_labels"`
	ColLabels   pq.StringArray `db:"col_labels"`
	Result      []byte         `db:"result"`
	EvaluatedAt time.Time      `db:"evaluated_at"`
	RuntimeMs   int64          `db:"runtime_ms"`
}

const evaluationColumns = `id, test, fingerprint, alpha, significant, p_value, labels, row_labels, col_labels, result, evaluated_at, runtime_ms`

func toRow(evaluation *categorical.Evaluation) (*evaluationRow, error) {
	resultJSON, err := json.Marshal(evaluation.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &evaluationRow{
		ID:          evaluation.ID.String(),
		Test:        evaluation.Test.String(),
		Fingerprint: evaluation.Fingerprint.String(),
		Alpha:       evaluation.Alpha,
		Significant: evaluation.Significant,
		PValue:      evaluation.Result.PValue,
		Labels:      pq.StringArray(evaluation.Labels),
		RowLabels:   pq.StringArray(evaluation.RowLabels),
		ColLabels:   pq.StringArray(evaluation.ColLabels),
		Result:      resultJSON,
		EvaluatedAt: evaluation.EvaluatedAt.Time(),
		RuntimeMs:   evaluation.RuntimeMs,
	}, nil
}

func (row *evaluationRow) toEvaluation() (*categorical.Evaluation, error) {
	evaluation := &categorical.Evaluation{
		ID:          core.ResultID(row.ID),
		Test:        core.TestName(row.Test),
		Fingerprint: core.InputHash(row.Fingerprint),
		Alpha:       row.Alpha,
		Significant: row.Significant,
		EvaluatedAt: core.NewTimestamp(row.EvaluatedAt),
		RuntimeMs:   row.RuntimeMs,
	}
	if len(row.Labels) > 0 {
		evaluation.Labels = []string(row.Labels)
	}
	if len(row.RowLabels) > 0 {
		evaluation.RowLabels = []string(row.RowLabels)
		evaluation.ColLabels = []string(row.ColLabels)
	}
	if err := json.Unmarshal(row.Result, &evaluation.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result for %s: %w", row.ID, err)
	}
	return evaluation, nil
}

// StoreEvaluation inserts an evaluation. Re-storing an ID is a no-op.
func (r *EvaluationRepository) StoreEvaluation(ctx context.Context, evaluation *categorical.Evaluation) error {
	row, err := toRow(evaluation)
	if err != nil {
		return err
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO evaluations (`+evaluationColumns+`)
		VALUES (:id, :test, :fingerprint, :alpha, :significant, :p_value, :labels, :row_labels, :col_labels, :result, :evaluated_at, :runtime_ms)
		ON CONFLICT (id) DO NOTHING
	`, row)
	if err != nil {
		return fmt.Errorf("failed to store evaluation: %w", err)
	}
	return nil
}

// GetEvaluation retrieves an evaluation by its ID
func (r *EvaluationRepository) GetEvaluation(ctx context.Context, id core.ResultID) (*categorical.Evaluation, error) {
	var row evaluationRow
	err := r.db.GetContext(ctx, &row, `SELECT `+evaluationColumns+` FROM evaluations WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("evaluation", id.String())
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return row.toEvaluation()
}

// ListEvaluations returns evaluations matching filters, newest first
func (r *EvaluationRepository) ListEvaluations(ctx context.Context, filters ports.EvaluationFilters) ([]categorical.Evaluation, error) {
	query, args := buildListQuery(filters)

	var rows []evaluationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}

	evaluations := make([]categorical.Evaluation, 0, len(rows))
	for i := range rows {
		evaluation, err := rows[i].toEvaluation()
		if err != nil {
			return nil, err
		}
		evaluations = append(evaluations, *evaluation)
	}
	return evaluations, nil
}

func buildListQuery(filters ports.EvaluationFilters) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filters.Test != "" {
		args = append(args, filters.Test.String())
		conditions = append(conditions, fmt.Sprintf("test = $%d", len(args)))
	}
	if filters.Fingerprint != "" {
		args = append(args, filters.Fingerprint.String())
		conditions = append(conditions, fmt.Sprintf("fingerprint = $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + evaluationColumns + ` FROM evaluations`)
	if len(conditions) > 0 {
		b.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	b.WriteString(" ORDER BY evaluated_at DESC, id DESC")
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}
