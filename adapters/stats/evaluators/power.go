package evaluators

import (
	"gochisq/internal/distributions"
)

// Power is the probability of rejecting independence at level alpha when the true
// effect size is w, with n observations and df degrees of freedom. The alternative is
// non-central chi-square with non-centrality n·w².
func Power(df int, w float64, n int, alpha float64) float64 {
	if df <= 0 || n <= 0 {
		return 0
	}
	critical := distributions.CriticalValue(alpha, df)
	return distributions.NoncentralChiSquareSurvival(critical, df, w*w*float64(n))
}
