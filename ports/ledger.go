package ports

import (
	"context"

	"gochisq/domain/categorical"
	"gochisq/domain/core"
)

// LedgerWriterPort provides append-only write access to evaluations
type LedgerWriterPort interface {
	StoreEvaluation(ctx context.Context, evaluation *categorical.Evaluation) error
}

// LedgerReaderPort provides read-only access to recorded evaluations
type LedgerReaderPort interface {
	// GetEvaluation returns core.ErrNotFound when id was never recorded
	GetEvaluation(ctx context.Context, id core.ResultID) (*categorical.Evaluation, error)
	// ListEvaluations returns matching evaluations, newest first
	ListEvaluations(ctx context.Context, filters EvaluationFilters) ([]categorical.Evaluation, error)
}

// EvaluationFilters for querying the ledger. Zero values match everything.
type EvaluationFilters struct {
	Test        core.TestName
	Fingerprint core.InputHash
	Limit       int
	Offset      int
}

// LedgerPort combines read and write access
type LedgerPort interface {
	LedgerWriterPort
	LedgerReaderPort
}
