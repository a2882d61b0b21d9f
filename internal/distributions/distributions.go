// Package distributions wraps the reference distributions the categorical tests are
// evaluated against.
package distributions

import (
	"math"

	moremath "github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquarePValue computes the upper-tail p-value of a chi-square statistic
func ChiSquarePValue(chiSquare float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}
	if chiSquare <= 0 {
		return 1.0
	}
	return distuv.ChiSquared{K: float64(degreesOfFreedom)}.Survival(chiSquare)
}

// ChiSquareCDF computes P(X <= x) for a chi-square variable
func ChiSquareCDF(x float64, degreesOfFreedom int) float64 {
	return distuv.ChiSquared{K: float64(degreesOfFreedom)}.CDF(x)
}

// ChiSquarePDF computes the density at x
func ChiSquarePDF(x float64, degreesOfFreedom int) float64 {
	if x < 0 {
		return 0
	}
	return distuv.ChiSquared{K: float64(degreesOfFreedom)}.Prob(x)
}

// ChiSquareQuantile is the inverse CDF
func ChiSquareQuantile(p float64, degreesOfFreedom int) float64 {
	return distuv.ChiSquared{K: float64(degreesOfFreedom)}.Quantile(p)
}

// CriticalValue returns the statistic beyond which a chi-square test rejects at level
// alpha, e.g. CriticalValue(0.05, 3) ≈ 7.81.
func CriticalValue(alpha float64, degreesOfFreedom int) float64 {
	return ChiSquareQuantile(1-alpha, degreesOfFreedom)
}

// noncentral mixture truncation
const (
	mixtureTolerance = 1e-17
	mixtureMaxTerms  = 100000
)

// NoncentralChiSquareSurvival computes P(X > x) for a non-central chi-square variable with
// non-centrality lambda. gonum has no non-central chi-square, so it is evaluated as the
// Poisson(lambda/2) mixture of central chi-squares with df+2j degrees of freedom.
func NoncentralChiSquareSurvival(x float64, degreesOfFreedom int, lambda float64) float64 {
	if lambda <= 0 {
		return ChiSquarePValue(x, degreesOfFreedom)
	}
	if x <= 0 {
		return 1.0
	}

	pois := distuv.Poisson{Lambda: lambda / 2}
	mode := int(math.Floor(lambda / 2))

	// Sum outward from the Poisson mode so the heaviest weights come first.
	total := 0.0
	term := func(j int) float64 {
		w := pois.Prob(float64(j))
		total += w * distuv.ChiSquared{K: float64(degreesOfFreedom + 2*j)}.Survival(x)
		return w
	}
	term(mode)
	for k := 1; k < mixtureMaxTerms; k++ {
		wUp := term(mode + k)
		wDown := 0.0
		if down := mode - k; down >= 0 {
			wDown = term(down)
		}
		if wUp < mixtureTolerance && wDown < mixtureTolerance {
			break
		}
	}
	return math.Min(1, math.Max(0, total))
}

// BinomialCDF computes P(X <= k) for X ~ Binomial(n, p)
func BinomialCDF(k, n int, p float64) float64 {
	if k < 0 {
		return 0
	}
	if k >= n {
		return 1
	}
	return distuv.Binomial{N: float64(n), P: p}.CDF(float64(k))
}

// Hypergeometric describes the top-left cell of a 2x2 table with fixed margins:
// Population = N, Successes = first column total, Draws = first row total.
type Hypergeometric struct {
	Population int
	Successes  int
	Draws      int
}

// Support returns the smallest and largest attainable values.
func (h Hypergeometric) Support() (lo, hi int) {
	lo = h.Draws + h.Successes - h.Population
	if lo < 0 {
		lo = 0
	}
	hi = h.Successes
	if h.Draws < hi {
		hi = h.Draws
	}
	return lo, hi
}

// PMF is the probability of exactly k successes
func (h Hypergeometric) PMF(k int) float64 {
	d := moremath.HypergeometicDist{N: h.Population, K: h.Successes, Draws: h.Draws}
	return d.PMF(float64(k))
}
