package evaluators

import (
	"math"

	"gochisq/domain/core"
)

// Lambda is a member of the Cressie-Read power-divergence family of statistics.
type Lambda struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Power-divergence family members, in the order they are reported.
var (
	LambdaPearson          = Lambda{Name: "pearson", Value: 1}
	LambdaCressieRead      = Lambda{Name: "cressie-read", Value: 2.0 / 3.0}
	LambdaLogLikelihood    = Lambda{Name: "log-likelihood", Value: 0}
	LambdaFreemanTukey     = Lambda{Name: "freeman-tukey", Value: -0.5}
	LambdaModLogLikelihood = Lambda{Name: "mod-log-likelihood", Value: -1}
	LambdaNeyman           = Lambda{Name: "neyman", Value: -2}

	AllLambdas = []Lambda{
		LambdaPearson,
		LambdaCressieRead,
		LambdaLogLikelihood,
		LambdaFreemanTukey,
		LambdaModLogLikelihood,
		LambdaNeyman,
	}
)

// ParseLambda looks a family member up by name. Empty input means Pearson.
func ParseLambda(name string) (Lambda, error) {
	if name == "" {
		return LambdaPearson, nil
	}
	for _, l := range AllLambdas {
		if l.Name == name {
			return l, nil
		}
	}
	return Lambda{}, core.NewMalformedError(core.ErrInvalidOption, "unknown lambda %q", name)
}

// powerDivergence computes 2/(λ(λ+1)) Σ O[(O/E)^λ - 1] over paired observed and expected
// cells, using the limiting forms at λ = 0 and λ = -1. Observed values may be fractional
// after a continuity adjustment.
func powerDivergence(observed, expected []float64, lambda Lambda) (float64, error) {
	l := lambda.Value
	stat := 0.0
	switch {
	case l == 0:
		for i, o := range observed {
			if o > 0 {
				stat += o * math.Log(o/expected[i])
			}
		}
		return 2 * stat, nil

	case l == -1:
		for i, o := range observed {
			if o <= 0 {
				return 0, core.NewDegenerateError(core.ErrUndefinedStatistic, "%s needs every observed cell > 0", lambda.Name)
			}
			stat += expected[i] * math.Log(expected[i]/o)
		}
		return 2 * stat, nil
	}

	for i, o := range observed {
		if o <= 0 && l < -1 {
			return 0, core.NewDegenerateError(core.ErrUndefinedStatistic, "%s needs every observed cell > 0", lambda.Name)
		}
		// O·(O/E)^λ written as O^(1+λ)·E^(-λ) so empty cells contribute zero
		stat += math.Pow(o, 1+l)*math.Pow(expected[i], -l) - o
	}
	return 2 * stat / (l * (l + 1)), nil
}
