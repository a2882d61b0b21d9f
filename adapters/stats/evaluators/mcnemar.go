package evaluators

import (
	"context"
	"math"

	"gochisq/domain/categorical"
	"gochisq/domain/core"
	"gochisq/internal/distributions"
)

// McNemarOptions tunes the McNemar test
type McNemarOptions struct {
	Correction bool
}

// DefaultMcNemarOptions turns the continuity correction on.
func DefaultMcNemarOptions() McNemarOptions {
	return McNemarOptions{Correction: true}
}

// McNemar tests marginal homogeneity of a paired 2x2 table [[a, b], [c, d]]. Only the
// discordant cells b and c carry information. With correction the statistic is
// (|b-c|-1)²/(b+c), floored at zero.
func McNemar(table *categorical.Table, opts McNemarOptions) (categorical.Result, error) {
	if table == nil || !table.Is2x2() {
		return categorical.Result{}, core.NewMalformedError(core.ErrDimensionMismatch, "mcnemar test needs a 2x2 table")
	}
	b := table.Cell(0, 1)
	c := table.Cell(1, 0)
	discordant := b + c
	if discordant == 0 {
		return categorical.Result{}, core.NewDegenerateError(core.ErrNoDiscordantPairs, "b + c = 0")
	}

	diff := math.Abs(float64(b - c))
	if opts.Correction {
		diff = math.Max(diff-1, 0)
	}
	chiSq := diff * diff / float64(discordant)

	result := categorical.Result{
		Test:      categorical.TestMcNemar,
		Statistic: categorical.Float(chiSq),
		DF:        categorical.Int(1),
		PValue:    distributions.ChiSquarePValue(chiSq, 1),
	}
	result.SetExtra("n", float64(table.Total()))
	result.SetExtra("discordant", float64(discordant))
	if opts.Correction {
		result.SetExtra("correction", 1)
	}

	// exact binomial version of the same null: b ~ Binomial(b+c, 1/2)
	smaller := b
	if c < smaller {
		smaller = c
	}
	result.SetExtra("p_exact", math.Min(1, 2*distributions.BinomialCDF(smaller, discordant, 0.5)))
	return result, nil
}

// McNemarEvaluator adapts McNemar to the Evaluator interface
type McNemarEvaluator struct {
	defaults McNemarOptions
}

// NewMcNemarEvaluator creates a new McNemar evaluator
func NewMcNemarEvaluator(defaults McNemarOptions) *McNemarEvaluator {
	return &McNemarEvaluator{defaults: defaults}
}

// Name returns the evaluator name
func (e *McNemarEvaluator) Name() core.TestName {
	return categorical.TestMcNemar
}

// Description returns a human-readable description
func (e *McNemarEvaluator) Description() string {
	return "McNemar test of marginal homogeneity for paired before/after responses"
}

// Evaluate runs the test on req.Table
func (e *McNemarEvaluator) Evaluate(ctx context.Context, req Request) (categorical.Result, error) {
	if err := ctx.Err(); err != nil {
		return categorical.Result{}, err
	}
	contingency, err := req.Contingency()
	if err != nil {
		return categorical.Result{}, err
	}
	table := contingency.Table
	opts := e.defaults
	if req.Options.Correction != nil {
		opts.Correction = *req.Options.Correction
	}
	return McNemar(table, opts)
}
