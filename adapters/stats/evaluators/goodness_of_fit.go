package evaluators

import (
	"context"
	"math"

	"gochisq/domain/categorical"
	"gochisq/domain/core"
	"gochisq/internal/distributions"
)

// GoodnessOfFitOptions tunes the goodness-of-fit test
type GoodnessOfFitOptions struct {
	// DDOF is subtracted from k-1 when parameters of the null were estimated from the data.
	DDOF int
}

// GoodnessOfFit tests observed counts against a null probability vector. A nil vector
// means every category is equally likely.
func GoodnessOfFit(observed categorical.Counts, probs categorical.Probabilities, opts GoodnessOfFitOptions) (categorical.Result, error) {
	if err := observed.Validate(); err != nil {
		return categorical.Result{}, err
	}
	k := len(observed)
	if k < 2 {
		return categorical.Result{}, core.NewMalformedError(core.ErrTooFewCategories, "got %d", k)
	}
	if probs == nil {
		probs = categorical.Uniform(k)
	}
	if len(probs) != k {
		return categorical.Result{}, core.NewMalformedError(core.ErrDimensionMismatch, "%d counts but %d probabilities", k, len(probs))
	}
	if err := probs.Validate(); err != nil {
		return categorical.Result{}, err
	}
	if opts.DDOF < 0 {
		return categorical.Result{}, core.NewMalformedError(core.ErrInvalidOption, "ddof %d is negative", opts.DDOF)
	}
	df := k - 1 - opts.DDOF
	if df < 1 {
		return categorical.Result{}, core.NewMalformedError(core.ErrInvalidOption, "ddof %d leaves %d degrees of freedom", opts.DDOF, df)
	}

	n := observed.Total()
	if n == 0 {
		return categorical.Result{}, core.NewDegenerateError(core.ErrZeroExpected, "no observations, every expected frequency is zero")
	}

	expected := make([]float64, k)
	chiSq := 0.0
	for i, o := range observed {
		expected[i] = float64(n) * probs[i]
		diff := float64(o) - expected[i]
		chiSq += diff * diff / expected[i]
	}

	result := categorical.Result{
		Test:      categorical.TestGoodnessOfFit,
		Statistic: categorical.Float(chiSq),
		DF:        categorical.Int(df),
		PValue:    distributions.ChiSquarePValue(chiSq, df),
		Expected:  [][]float64{expected},
		Warnings:  categorical.CheckExpectedFlat(expected),
	}
	result.SetExtra("n", float64(n))
	result.SetExtra("cohen_w", math.Sqrt(chiSq/float64(n)))
	return result, nil
}

// GoodnessOfFitLabeled aligns labeled counts and probabilities by name and runs
// GoodnessOfFit. The returned labels give the order of Result.Expected.
func GoodnessOfFitLabeled(cats categorical.Categories, opts GoodnessOfFitOptions) (categorical.Result, []string, error) {
	labels, observed, probs, err := cats.Align()
	if err != nil {
		return categorical.Result{}, nil, err
	}
	result, err := GoodnessOfFit(observed, probs, opts)
	if err != nil {
		return categorical.Result{}, nil, err
	}
	return result, labels, nil
}

// GoodnessOfFitEvaluator adapts GoodnessOfFit to the Evaluator interface
type GoodnessOfFitEvaluator struct{}

// NewGoodnessOfFitEvaluator creates a new goodness-of-fit evaluator
func NewGoodnessOfFitEvaluator() *GoodnessOfFitEvaluator {
	return &GoodnessOfFitEvaluator{}
}

// Name returns the evaluator name
func (e *GoodnessOfFitEvaluator) Name() core.TestName {
	return categorical.TestGoodnessOfFit
}

// Description returns a human-readable description
func (e *GoodnessOfFitEvaluator) Description() string {
	return "Chi-square goodness-of-fit of observed counts against null category probabilities"
}

// Evaluate runs the test on a request carrying either observed/probabilities or categories
func (e *GoodnessOfFitEvaluator) Evaluate(ctx context.Context, req Request) (categorical.Result, error) {
	if err := ctx.Err(); err != nil {
		return categorical.Result{}, err
	}
	opts := GoodnessOfFitOptions{DDOF: req.Options.DDOF}
	if req.Categories != nil {
		result, _, err := GoodnessOfFitLabeled(*req.Categories, opts)
		return result, err
	}
	return GoodnessOfFit(req.Observed, req.Probabilities, opts)
}
