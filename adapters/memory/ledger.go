package memory

import (
	"context"
	"sync"

	"gochisq/domain/categorical"
	"gochisq/domain/core"
	"gochisq/ports"
)

// InMemoryLedgerAdapter implements LedgerPort with in-memory storage
type InMemoryLedgerAdapter struct {
	evaluations map[core.ResultID]categorical.Evaluation
	order       []core.ResultID
	mu          sync.RWMutex
}

// NewInMemoryLedgerAdapter creates an empty ledger
func NewInMemoryLedgerAdapter() *InMemoryLedgerAdapter {
	return &InMemoryLedgerAdapter{
		evaluations: make(map[core.ResultID]categorical.Evaluation),
	}
}

// StoreEvaluation records a copy of an evaluation. Storing the same ID twice keeps the first record.
func (s *InMemoryLedgerAdapter) StoreEvaluation(ctx context.Context, evaluation *categorical.Evaluation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.evaluations[evaluation.ID]; exists {
		return nil
	}
	s.evaluations[evaluation.ID] = evaluation.Clone()
	s.order = append(s.order, evaluation.ID)
	return nil
}

func (s *InMemoryLedgerAdapter) GetEvaluation(ctx context.Context, id core.ResultID) (*categorical.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	evaluation, exists := s.evaluations[id]
	if !exists {
		return nil, core.NewNotFoundError("evaluation", id.String())
	}
	out := evaluation.Clone()
	return &out, nil
}

func (s *InMemoryLedgerAdapter) ListEvaluations(ctx context.Context, filters ports.EvaluationFilters) ([]categorical.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []categorical.Evaluation{}
	skipped := 0

	// Newest first
	for i := len(s.order) - 1; i >= 0; i-- {
		evaluation := s.evaluations[s.order[i]]
		if filters.Test != "" && evaluation.Test != filters.Test {
			continue
		}
		if filters.Fingerprint != "" && evaluation.Fingerprint != filters.Fingerprint {
			continue
		}
		if skipped < filters.Offset {
			skipped++
			continue
		}

		results = append(results, evaluation.Clone())
		if filters.Limit > 0 && len(results) >= filters.Limit {
			break
		}
	}

	return results, nil
}

// Len returns the number of recorded evaluations
func (s *InMemoryLedgerAdapter) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
