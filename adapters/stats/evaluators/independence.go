package evaluators

import (
	"context"
	"errors"
	"math"

	"gochisq/domain/categorical"
	"gochisq/domain/core"
	"gochisq/internal/distributions"
)

// DefaultPowerAlpha is the significance level used for the reported power.
const DefaultPowerAlpha = 0.05

// IndependenceOptions tunes the test of independence
type IndependenceOptions struct {
	// YatesCorrection moves every observed cell up to 0.5 toward its expected value
	// before the statistic is computed. Applied only when df = 1.
	YatesCorrection bool
	Lambda          Lambda
	// PowerAlpha is the level at which power is reported
	PowerAlpha float64
}

// DefaultIndependenceOptions matches the conventional defaults: Yates on, Pearson statistic.
func DefaultIndependenceOptions() IndependenceOptions {
	return IndependenceOptions{
		YatesCorrection: true,
		Lambda:          LambdaPearson,
		PowerAlpha:      DefaultPowerAlpha,
	}
}

// LambdaResult is one row of the power-divergence summary
type LambdaResult struct {
	Lambda Lambda             `json:"lambda"`
	Result categorical.Result `json:"result"`
}

// Independence runs the chi-square test of independence on an r x c table.
func Independence(table *categorical.Table, opts IndependenceOptions) (categorical.Result, error) {
	if table == nil {
		return categorical.Result{}, core.NewMalformedError(core.ErrDimensionMismatch, "no table")
	}
	if table.Rows() < 2 || table.Cols() < 2 {
		return categorical.Result{}, core.NewMalformedError(core.ErrTooFewCategories, "table is %dx%d", table.Rows(), table.Cols())
	}
	if opts.Lambda.Name == "" {
		opts.Lambda = LambdaPearson
	}
	if opts.PowerAlpha <= 0 || opts.PowerAlpha >= 1 {
		opts.PowerAlpha = DefaultPowerAlpha
	}

	expected, err := table.Expected()
	if err != nil {
		return categorical.Result{}, err
	}

	df := (table.Rows() - 1) * (table.Cols() - 1)
	corrected := opts.YatesCorrection && df == 1

	observedFlat := make([]float64, 0, table.Rows()*table.Cols())
	expectedFlat := make([]float64, 0, table.Rows()*table.Cols())
	for i := 0; i < table.Rows(); i++ {
		for j := 0; j < table.Cols(); j++ {
			o := float64(table.Cell(i, j))
			e := expected[i][j]
			if corrected {
				o = yatesAdjust(o, e)
			}
			observedFlat = append(observedFlat, o)
			expectedFlat = append(expectedFlat, e)
		}
	}

	chiSq, err := powerDivergence(observedFlat, expectedFlat, opts.Lambda)
	if err != nil {
		return categorical.Result{}, err
	}
	// rounding can leave a tiny negative value when O = E
	chiSq = math.Max(0, chiSq)

	n := float64(table.Total())
	minDim := math.Min(float64(table.Rows()), float64(table.Cols())) - 1
	cramerV := math.Sqrt(chiSq / (n * minDim))

	result := categorical.Result{
		Test:       categorical.TestIndependence,
		Statistic:  categorical.Float(chiSq),
		DF:         categorical.Int(df),
		PValue:     distributions.ChiSquarePValue(chiSq, df),
		EffectSize: categorical.Float(cramerV),
		Expected:   expected,
		Warnings:   categorical.CheckExpected(expected),
	}
	result.SetExtra("n", n)
	result.SetExtra("lambda", opts.Lambda.Value)
	result.SetExtra("power", Power(df, cramerV, int(n), opts.PowerAlpha))
	if corrected {
		result.SetExtra("yates_correction", 1)
	}
	if table.Is2x2() {
		// phi is bounded by 1 only for 2x2 tables
		result.SetExtra("phi", math.Sqrt(chiSq/n))
	}
	return result, nil
}

// IndependenceTable reports the test once per power-divergence family member. Members
// that are undefined for this table (empty cells with λ <= -1) are skipped.
func IndependenceTable(table *categorical.Table, opts IndependenceOptions) ([]LambdaResult, error) {
	out := make([]LambdaResult, 0, len(AllLambdas))
	for _, l := range AllLambdas {
		opts.Lambda = l
		result, err := Independence(table, opts)
		if errors.Is(err, core.ErrUndefinedStatistic) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, LambdaResult{Lambda: l, Result: result})
	}
	return out, nil
}

// yatesAdjust moves o toward e by at most 0.5, so |O-E| becomes max(|O-E|-0.5, 0).
func yatesAdjust(o, e float64) float64 {
	diff := e - o
	step := math.Min(0.5, math.Abs(diff))
	if diff < 0 {
		return o - step
	}
	return o + step
}

// IndependenceEvaluator adapts Independence to the Evaluator interface
type IndependenceEvaluator struct {
	defaults IndependenceOptions
}

// NewIndependenceEvaluator creates a new independence evaluator with the given defaults
func NewIndependenceEvaluator(defaults IndependenceOptions) *IndependenceEvaluator {
	return &IndependenceEvaluator{defaults: defaults}
}

// Name returns the evaluator name
func (e *IndependenceEvaluator) Name() core.TestName {
	return categorical.TestIndependence
}

// Description returns a human-readable description
func (e *IndependenceEvaluator) Description() string {
	return "Chi-square test of independence for an r x c contingency table, with Cramer's V"
}

// Evaluate runs the test on req.Table
func (e *IndependenceEvaluator) Evaluate(ctx context.Context, req Request) (categorical.Result, error) {
	if err := ctx.Err(); err != nil {
		return categorical.Result{}, err
	}
	contingency, err := req.Contingency()
	if err != nil {
		return categorical.Result{}, err
	}
	table := contingency.Table
	opts, err := e.options(req.Options)
	if err != nil {
		return categorical.Result{}, err
	}
	return Independence(table, opts)
}

func (e *IndependenceEvaluator) options(o Options) (IndependenceOptions, error) {
	opts := e.defaults
	if o.YatesCorrection != nil {
		opts.YatesCorrection = *o.YatesCorrection
	}
	if o.Lambda != "" {
		l, err := ParseLambda(o.Lambda)
		if err != nil {
			return opts, err
		}
		opts.Lambda = l
	}
	if o.Alpha != 0 {
		if o.Alpha <= 0 || o.Alpha >= 1 {
			return opts, core.NewMalformedError(core.ErrInvalidOption, "alpha %v outside (0,1)", o.Alpha)
		}
		opts.PowerAlpha = o.Alpha
	}
	return opts, nil
}
