package evaluators

import (
	"context"
	"math"

	"gochisq/domain/categorical"
	"gochisq/domain/core"
	"gochisq/internal/distributions"
)

// fisherRelativeTolerance absorbs floating error when comparing table probabilities, so
// tables exactly as likely as the observed one are counted as at least as extreme.
const fisherRelativeTolerance = 1e-7

// FisherExact computes the exact p-value of a 2x2 table by summing hypergeometric
// probabilities over every table with the same margins. There is no statistic and no
// degrees of freedom. The sample odds ratio is reported as an extra when finite.
func FisherExact(table *categorical.Table, alt categorical.Alternative) (categorical.Result, error) {
	if table == nil || !table.Is2x2() {
		return categorical.Result{}, core.NewMalformedError(core.ErrDimensionMismatch, "fisher exact test needs a 2x2 table")
	}
	if table.Total() == 0 {
		return categorical.Result{}, core.NewDegenerateError(core.ErrEmptyTable, "no observations")
	}
	if alt == "" {
		alt = categorical.TwoSided
	}

	rowTotals := table.RowTotals()
	colTotals := table.ColTotals()
	dist := distributions.Hypergeometric{
		Population: table.Total(),
		Successes:  colTotals[0],
		Draws:      rowTotals[0],
	}
	observed := table.Cell(0, 0)
	lo, hi := dist.Support()

	pValue := 0.0
	switch alt {
	case categorical.Less:
		for k := lo; k <= observed; k++ {
			pValue += dist.PMF(k)
		}
	case categorical.Greater:
		for k := observed; k <= hi; k++ {
			pValue += dist.PMF(k)
		}
	case categorical.TwoSided:
		threshold := dist.PMF(observed) * (1 + fisherRelativeTolerance)
		for k := lo; k <= hi; k++ {
			if p := dist.PMF(k); p <= threshold {
				pValue += p
			}
		}
	default:
		return categorical.Result{}, core.NewMalformedError(core.ErrInvalidOption, "alternative %q", alt)
	}

	result := categorical.Result{
		Test:   categorical.TestFisherExact,
		PValue: math.Min(1, pValue),
	}
	result.SetExtra("n", float64(table.Total()))

	ad := float64(table.Cell(0, 0)) * float64(table.Cell(1, 1))
	bc := float64(table.Cell(0, 1)) * float64(table.Cell(1, 0))
	if bc > 0 {
		result.SetExtra("odds_ratio", ad/bc)
	}
	return result, nil
}

// FisherExactEvaluator adapts FisherExact to the Evaluator interface
type FisherExactEvaluator struct{}

// NewFisherExactEvaluator creates a new Fisher exact evaluator
func NewFisherExactEvaluator() *FisherExactEvaluator {
	return &FisherExactEvaluator{}
}

// Name returns the evaluator name
func (e *FisherExactEvaluator) Name() core.TestName {
	return categorical.TestFisherExact
}

// Description returns a human-readable description
func (e *FisherExactEvaluator) Description() string {
	return "Fisher exact test for a 2x2 table, valid when expected frequencies are small"
}

// Evaluate runs the test on req.Table
func (e *FisherExactEvaluator) Evaluate(ctx context.Context, req Request) (categorical.Result, error) {
	if err := ctx.Err(); err != nil {
		return categorical.Result{}, err
	}
	contingency, err := req.Contingency()
	if err != nil {
		return categorical.Result{}, err
	}
	table := contingency.Table
	alt, err := categorical.ParseAlternative(req.Options.Alternative)
	if err != nil {
		return categorical.Result{}, err
	}
	return FisherExact(table, alt)
}
