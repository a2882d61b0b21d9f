package categorical

import (
	"math"

	"github.com/montanaflynn/stats"

	"gochisq/domain/core"
)

// ProbabilityTolerance bounds how far a null-hypothesis vector may drift from summing to one.
const ProbabilityTolerance = 1e-8

// Counts is a flat sequence of observed frequencies, one per category.
type Counts []int

// Total returns N, the sum of all counts.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Validate checks the non-negativity invariant.
func (c Counts) Validate() error {
	for i, v := range c {
		if v < 0 {
			return core.NewMalformedError(core.ErrNegativeCount, "category %d has count %d", i, v)
		}
	}
	return nil
}

// Probabilities is a null-hypothesis probability vector.
type Probabilities []float64

// Uniform returns the equal-probability vector over k categories.
func Uniform(k int) Probabilities {
	p := make(Probabilities, k)
	for i := range p {
		p[i] = 1.0 / float64(k)
	}
	return p
}

// Validate checks that every entry is positive and the vector sums to one.
func (p Probabilities) Validate() error {
	for i, v := range p {
		if math.IsNaN(v) || v <= 0 {
			return core.NewMalformedError(core.ErrInvalidProbability, "entry %d is %v, must be > 0", i, v)
		}
	}
	sum, err := stats.Sum(stats.Float64Data(p))
	if err != nil {
		return core.NewMalformedError(core.ErrInvalidProbability, "%v", err)
	}
	if math.Abs(sum-1) > ProbabilityTolerance {
		return core.NewMalformedError(core.ErrInvalidProbability, "entries sum to %g, want 1", sum)
	}
	return nil
}

// Alternative selects the tail(s) of an exact test.
type Alternative string

const (
	TwoSided Alternative = "two-sided"
	Less     Alternative = "less"
	Greater  Alternative = "greater"
)

// ParseAlternative maps user input onto an Alternative. Empty input means two-sided.
func ParseAlternative(s string) (Alternative, error) {
	switch Alternative(s) {
	case "", TwoSided:
		return TwoSided, nil
	case Less, Greater:
		return Alternative(s), nil
	}
	return "", core.NewMalformedError(core.ErrInvalidOption, "alternative %q (want two-sided, less or greater)", s)
}

// String implements fmt.Stringer
func (a Alternative) String() string {
	return string(a)
}

