package app

import (
	"context"
	"fmt"
	"time"

	"gochisq/adapters/stats/evaluators"
	"gochisq/domain/categorical"
	"gochisq/domain/core"
	"gochisq/internal"
	"gochisq/internal/distributions"
	"gochisq/internal/errors"
	"gochisq/ports"
)

// DefaultListLimit bounds ListEvaluations when the caller gives no limit
const DefaultListLimit = 50

// EvaluationService runs categorical tests for the CLI and HTTP front ends
type EvaluationService struct {
	engine *evaluators.Engine
	ledger ports.LedgerPort
	logger *internal.Logger
	config ServiceConfig
}

// ServiceConfig bounds and defaults the service
type ServiceConfig struct {
	DefaultAlpha     float64
	MaxBatchSize     int
	BatchConcurrency int
}

// DefaultServiceConfig returns the defaults used when no environment is configured
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		DefaultAlpha:     0.05,
		MaxBatchSize:     100,
		BatchConcurrency: 4,
	}
}

// BatchEntry is one slot of a batch response. Exactly one of Evaluation and Error is set.
type BatchEntry struct {
	Index      int                     `json:"index"`
	Evaluation *categorical.Evaluation `json:"evaluation,omitempty"`
	Error      *ErrorBody              `json:"error,omitempty"`
}

// ErrorBody is the serialized form of an AppError
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TestInfo describes a registered test
type TestInfo struct {
	Name        core.TestName `json:"name"`
	Description string        `json:"description"`
}

// NewErrorBody classifies err and renders it for a response
func NewErrorBody(err error) *ErrorBody {
	mapped := errors.FromDomain(err)
	return &ErrorBody{Code: errors.GetCode(mapped), Message: err.Error()}
}

// NewEvaluationService creates an evaluation service. A nil ledger disables recording.
func NewEvaluationService(engine *evaluators.Engine, ledger ports.LedgerPort, logger *internal.Logger, config ServiceConfig) *EvaluationService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	defaults := DefaultServiceConfig()
	if config.DefaultAlpha <= 0 || config.DefaultAlpha >= 1 {
		config.DefaultAlpha = defaults.DefaultAlpha
	}
	if config.MaxBatchSize < 1 {
		config.MaxBatchSize = defaults.MaxBatchSize
	}
	if config.BatchConcurrency < 1 {
		config.BatchConcurrency = defaults.BatchConcurrency
	}
	return &EvaluationService{
		engine: engine,
		ledger: ledger,
		logger: logger,
		config: config,
	}
}

// ListTests returns the registered tests sorted by name
func (s *EvaluationService) ListTests() []TestInfo {
	evs := s.engine.List()
	out := make([]TestInfo, 0, len(evs))
	for _, ev := range evs {
		out = append(out, TestInfo{Name: ev.Name(), Description: ev.Description()})
	}
	return out
}

// Evaluate runs one request. Errors are AppErrors carrying the domain error as cause.
func (s *EvaluationService) Evaluate(ctx context.Context, req evaluators.Request) (*categorical.Evaluation, error) {
	start := time.Now()
	logger := s.logger.With(map[string]interface{}{"test": req.Test})
	logger.Debug("evaluating request")

	result, err := s.engine.Evaluate(ctx, req)
	if err != nil {
		mapped := errors.FromDomain(err)
		logger.Warn("evaluation failed (%s): %v", errors.GetCode(mapped), err)
		return nil, mapped
	}

	evaluation := s.newEvaluation(req, result, start)
	if len(result.Warnings) > 0 {
		logger.Info("evaluation %s finished with %d assumption warnings", evaluation.ID, len(result.Warnings))
	} else {
		logger.Debug("evaluation %s finished: p=%.6g", evaluation.ID, result.PValue)
	}
	s.record(ctx, evaluation)
	return evaluation, nil
}

// EvaluateBatch runs independent requests concurrently; one failing request never fails the batch.
func (s *EvaluationService) EvaluateBatch(ctx context.Context, reqs []evaluators.Request) ([]BatchEntry, error) {
	if len(reqs) == 0 {
		return nil, errors.InvalidInput("batch is empty")
	}
	if len(reqs) > s.config.MaxBatchSize {
		return nil, errors.InvalidInput(fmt.Sprintf("batch of %d requests exceeds the limit of %d", len(reqs), s.config.MaxBatchSize))
	}

	start := time.Now()
	items := s.engine.EvaluateBatch(ctx, reqs, s.config.BatchConcurrency)

	entries := make([]BatchEntry, len(items))
	failed := 0
	for i, item := range items {
		entries[i].Index = item.Index
		if item.Err != nil {
			failed++
			entries[i].Error = NewErrorBody(item.Err)
			continue
		}
		entries[i].Evaluation = s.newEvaluation(reqs[i], item.Result, start)
		s.record(ctx, entries[i].Evaluation)
	}

	s.logger.Info("batch of %d evaluated in %v (%d failed)", len(reqs), time.Since(start), failed)
	return entries, nil
}

// GetEvaluation looks up a recorded evaluation
func (s *EvaluationService) GetEvaluation(ctx context.Context, id core.ResultID) (*categorical.Evaluation, error) {
	if s.ledger == nil {
		return nil, errors.FromDomain(core.NewNotFoundError("evaluation", id.String()))
	}
	evaluation, err := s.ledger.GetEvaluation(ctx, id)
	if err != nil {
		return nil, errors.FromDomain(err)
	}
	return evaluation, nil
}

// ListEvaluations returns recorded evaluations, newest first
func (s *EvaluationService) ListEvaluations(ctx context.Context, filters ports.EvaluationFilters) ([]categorical.Evaluation, error) {
	if s.ledger == nil {
		return []categorical.Evaluation{}, nil
	}
	if filters.Limit < 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("limit %d is negative", filters.Limit))
	}
	if filters.Limit == 0 {
		filters.Limit = DefaultListLimit
	}
	if filters.Offset < 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("offset %d is negative", filters.Offset))
	}
	evaluations, err := s.ledger.ListEvaluations(ctx, filters)
	if err != nil {
		return nil, errors.FromDomain(err)
	}
	return evaluations, nil
}

// PowerDivergence evaluates the independence test once per Cressie-Read lambda
func (s *EvaluationService) PowerDivergence(ctx context.Context, cells [][]int, opts evaluators.Options) ([]evaluators.LambdaResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.FromDomain(err)
	}
	table, err := categorical.NewTable(cells)
	if err != nil {
		return nil, errors.FromDomain(err)
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.FromDomain(err)
	}
	indOpts := s.engine.Config().Independence
	if opts.YatesCorrection != nil {
		indOpts.YatesCorrection = *opts.YatesCorrection
	}
	if opts.Alpha != 0 {
		indOpts.PowerAlpha = opts.Alpha
	}
	rows, err := evaluators.IndependenceTable(table, indOpts)
	if err != nil {
		return nil, errors.FromDomain(err)
	}
	s.logger.Debug("power divergence on %s: %d statistics", table, len(rows))
	return rows, nil
}

// CriticalValue returns the chi-square value exceeded with probability alpha
func (s *EvaluationService) CriticalValue(alpha float64, df int) (float64, error) {
	if alpha <= 0 || alpha >= 1 {
		return 0, errors.InvalidInput(fmt.Sprintf("alpha %v must lie in (0, 1)", alpha))
	}
	if df < 1 {
		return 0, errors.InvalidInput(fmt.Sprintf("df %d must be at least 1", df))
	}
	return distributions.CriticalValue(alpha, df), nil
}

// record stores an evaluation in the ledger. A ledger failure is logged and
// does not fail the evaluation, which the caller already holds.
func (s *EvaluationService) record(ctx context.Context, evaluation *categorical.Evaluation) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.StoreEvaluation(ctx, evaluation); err != nil {
		s.logger.Error("failed to record evaluation %s: %v", evaluation.ID, err)
	}
}

func (s *EvaluationService) newEvaluation(req evaluators.Request, result categorical.Result, start time.Time) *categorical.Evaluation {
	alpha := req.Options.Alpha
	if alpha == 0 {
		alpha = s.config.DefaultAlpha
	}

	evaluation := &categorical.Evaluation{
		ID:          core.NewResultID(),
		Fingerprint: req.Fingerprint(),
		Test:        result.Test,
		Alpha:       alpha,
		Significant: result.Significant(alpha),
		Result:      result,
		EvaluatedAt: core.Now(),
		RuntimeMs:   time.Since(start).Milliseconds(),
	}
	if req.Categories != nil {
		if labels, _, _, err := req.Categories.Align(); err == nil {
			evaluation.Labels = labels
		}
	}
	if len(req.Table) == 0 && req.Pairs != nil {
		if lt, err := req.Pairs.Crosstab(); err == nil {
			evaluation.RowLabels = lt.RowLabels
			evaluation.ColLabels = lt.ColLabels
		}
	}
	return evaluation
}
