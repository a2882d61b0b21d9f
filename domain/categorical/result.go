package categorical

import (
	"gochisq/domain/core"
)

// Test names used by evaluators and front ends
const (
	TestGoodnessOfFit core.TestName = "goodness_of_fit"
	TestIndependence  core.TestName = "independence"
	TestFisherExact   core.TestName = "fisher_exact"
	TestMcNemar       core.TestName = "mcnemar"
)

// Result is the record every evaluator produces. Statistic and DF are nil for tests
// that sum an exact distribution instead of approximating one (Fisher).
type Result struct {
	Test       core.TestName      `json:"test"`
	Statistic  *float64           `json:"statistic,omitempty"`
	DF         *int               `json:"df,omitempty"`
	PValue     float64            `json:"p_value"`
	EffectSize *float64           `json:"effect_size,omitempty"`
	Expected   [][]float64        `json:"expected,omitempty"`
	Warnings   []Warning          `json:"warnings,omitempty"`
	Extras     map[string]float64 `json:"extras,omitempty"`
}

// Significant reports whether the p-value falls below alpha.
func (r Result) Significant(alpha float64) bool {
	return r.PValue < alpha
}

// Extra returns a named auxiliary value and whether it was set.
func (r Result) Extra(name string) (float64, bool) {
	v, ok := r.Extras[name]
	return v, ok
}

// SetExtra records a named auxiliary value.
func (r *Result) SetExtra(name string, v float64) {
	if r.Extras == nil {
		r.Extras = make(map[string]float64)
	}
	r.Extras[name] = v
}

// Float and Int return pointers for the optional result fields.
func Float(v float64) *float64 { return &v }
func Int(v int) *int           { return &v }

// Clone returns a deep copy of the result.
func (r Result) Clone() Result {
	out := r
	if r.Statistic != nil {
		out.Statistic = Float(*r.Statistic)
	}
	if r.DF != nil {
		out.DF = Int(*r.DF)
	}
	if r.EffectSize != nil {
		out.EffectSize = Float(*r.EffectSize)
	}
	if r.Expected != nil {
		out.Expected = make([][]float64, len(r.Expected))
		for i, row := range r.Expected {
			out.Expected[i] = append([]float64(nil), row...)
		}
	}
	if r.Warnings != nil {
		out.Warnings = append([]Warning(nil), r.Warnings...)
	}
	if r.Extras != nil {
		out.Extras = make(map[string]float64, len(r.Extras))
		for k, v := range r.Extras {
			out.Extras[k] = v
		}
	}
	return out
}
