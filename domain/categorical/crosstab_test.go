package categorical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gochisq/domain/core"
)

func TestCrosstab(t *testing.T) {
	happy := []string{"no", "no", "yes", "yes", "yes", "no"}
	onFire := []string{"true", "false", "false", "false", "false", "true"}

	ct, err := Crosstab(happy, onFire)
	require.NoError(t, err)

	assert.Equal(t, []string{"no", "yes"}, ct.RowLabels)
	assert.Equal(t, []string{"false", "true"}, ct.ColLabels)
	assert.Equal(t, [][]int{{1, 2}, {3, 0}}, ct.Table.Cells())
	assert.Equal(t, len(happy), ct.Table.Total())
}

func TestCrosstab_Errors(t *testing.T) {
	_, err := Crosstab([]string{"a"}, []string{"b", "c"})
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)

	_, err = Crosstab(nil, nil)
	assert.ErrorIs(t, err, core.ErrEmptyTable)
}

func TestCategories_Align(t *testing.T) {
	cats := Categories{
		Observed:      map[string]int{"hearts": 64, "diamonds": 51, "spades": 50, "clubs": 35},
		Probabilities: map[string]float64{"hearts": .3, "diamonds": .3, "spades": .2, "clubs": .2},
	}

	labels, observed, probs, err := cats.Align()
	require.NoError(t, err)
	assert.Equal(t, []string{"clubs", "diamonds", "hearts", "spades"}, labels)
	assert.Equal(t, Counts{35, 51, 64, 50}, observed)
	assert.Equal(t, Probabilities{.2, .3, .3, .2}, probs)
}

func TestCategories_AlignUniformAndMismatch(t *testing.T) {
	_, _, probs, err := Categories{Observed: map[string]int{"a": 1, "b": 2}}.Align()
	require.NoError(t, err)
	assert.Equal(t, Probabilities{.5, .5}, probs)

	_, _, _, err = Categories{
		Observed:      map[string]int{"a": 1, "b": 2},
		Probabilities: map[string]float64{"a": .5, "c": .5},
	}.Align()
	assert.ErrorIs(t, err, core.ErrUnknownCategory)

	_, _, _, err = Categories{
		Observed:      map[string]int{"a": 1, "b": 2},
		Probabilities: map[string]float64{"a": .4, "b": .3, "c": .3},
	}.Align()
	assert.ErrorIs(t, err, core.ErrUnknownCategory)
}

func TestCheckExpected(t *testing.T) {
	assert.Empty(t, CheckExpected([][]float64{{50, 50}, {50, 50}}))

	warnings := CheckExpected([][]float64{{0.5, 10}, {10, 10}})
	require.Len(t, warnings, 2)
	assert.Equal(t, WarnExpectedBelowOne, warnings[0].Code)
	assert.Equal(t, WarnExpectedBelowFive, warnings[1].Code)

	// exactly 20% below five is tolerated
	warnings = CheckExpectedFlat([]float64{4, 10, 10, 10, 10})
	assert.Empty(t, warnings)

	warnings = CheckExpectedFlat([]float64{4, 4, 10, 10, 10})
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnExpectedBelowFive, warnings[0].Code)
}
