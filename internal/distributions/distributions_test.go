package distributions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCriticalValue(t *testing.T) {
	// textbook table values
	assert.InDelta(t, 7.815, CriticalValue(0.05, 3), 1e-3)
	assert.InDelta(t, 3.841, CriticalValue(0.05, 1), 1e-3)
	assert.InDelta(t, 5.991, CriticalValue(0.05, 2), 1e-3)
	assert.InDelta(t, 9.210, CriticalValue(0.01, 2), 1e-3)
}

func TestChiSquarePValue(t *testing.T) {
	assert.InDelta(t, 0.05, ChiSquarePValue(CriticalValue(0.05, 3), 3), 1e-9)
	// df=2 survival is exp(-x/2)
	assert.InDelta(t, math.Exp(-5), ChiSquarePValue(10, 2), 1e-12)
	assert.Equal(t, 1.0, ChiSquarePValue(0, 3))
	assert.Equal(t, 1.0, ChiSquarePValue(4, 0))
}

func TestChiSquarePDFAndCDF(t *testing.T) {
	// df=2 density is exp(-x/2)/2
	assert.InDelta(t, math.Exp(-1)/2, ChiSquarePDF(2, 2), 1e-12)
	assert.Equal(t, 0.0, ChiSquarePDF(-1, 3))
	assert.InDelta(t, 1-math.Exp(-1), ChiSquareCDF(2, 2), 1e-12)
	assert.InDelta(t, 0.95, ChiSquareCDF(ChiSquareQuantile(0.95, 4), 4), 1e-9)
}

func TestNoncentralChiSquareSurvival(t *testing.T) {
	crit := CriticalValue(0.05, 1)

	// zero non-centrality collapses to the central distribution
	assert.InDelta(t, 0.05, NoncentralChiSquareSurvival(crit, 1, 0), 1e-9)

	// df=1 non-central is the square of N(sqrt(lambda), 1)
	lambda := 4.0
	z := math.Sqrt(crit)
	normalSF := func(x float64) float64 { return 0.5 * math.Erfc(x/math.Sqrt2) }
	want := normalSF(z-math.Sqrt(lambda)) + normalSF(z+math.Sqrt(lambda))
	assert.InDelta(t, want, NoncentralChiSquareSurvival(crit, 1, lambda), 1e-8)

	// power grows with non-centrality
	assert.Greater(t, NoncentralChiSquareSurvival(crit, 2, 10), NoncentralChiSquareSurvival(crit, 2, 5))
}

func TestBinomialCDF(t *testing.T) {
	assert.InDelta(t, 0.5, BinomialCDF(1, 3, 0.5), 1e-12)
	assert.InDelta(t, 1.0/32, BinomialCDF(0, 5, 0.5), 1e-12)
	assert.Equal(t, 0.0, BinomialCDF(-1, 5, 0.5))
	assert.Equal(t, 1.0, BinomialCDF(5, 5, 0.5))
}

func TestHypergeometric(t *testing.T) {
	// margins of [[3,3],[10,0]]: N=16, first column 13, first row 6
	h := Hypergeometric{Population: 16, Successes: 13, Draws: 6}
	lo, hi := h.Support()
	assert.Equal(t, 3, lo)
	assert.Equal(t, 6, hi)

	assert.InDelta(t, 20.0/560, h.PMF(3), 1e-12)
	assert.InDelta(t, 150.0/560, h.PMF(4), 1e-12)

	total := 0.0
	for k := lo; k <= hi; k++ {
		total += h.PMF(k)
	}
	assert.InDelta(t, 1.0, total, 1e-12)
	assert.Equal(t, 0.0, h.PMF(2))
}
