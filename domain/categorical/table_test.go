package categorical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gochisq/domain/core"
)

func TestNewTable_Validation(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]int
		wantErr error
	}{
		{"empty", [][]int{}, core.ErrDimensionMismatch},
		{"no columns", [][]int{{}}, core.ErrDimensionMismatch},
		{"ragged", [][]int{{1, 2}, {3}}, core.ErrDimensionMismatch},
		{"negative", [][]int{{1, -2}, {3, 4}}, core.ErrNegativeCount},
		{"valid", [][]int{{1, 2}, {3, 4}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.rows)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, core.IsMalformedInput(err))
		})
	}
}

func TestTable_CopiesInput(t *testing.T) {
	rows := [][]int{{1, 2}, {3, 4}}
	table := MustTable(rows)
	rows[0][0] = 99

	assert.Equal(t, 1, table.Cell(0, 0))

	cells := table.Cells()
	cells[1][1] = 99
	assert.Equal(t, 4, table.Cell(1, 1))
}

func TestTable_Margins(t *testing.T) {
	table := MustTable([][]int{{13, 15}, {30, 13}, {44, 65}})

	assert.Equal(t, 3, table.Rows())
	assert.Equal(t, 2, table.Cols())
	assert.Equal(t, []int{28, 43, 109}, table.RowTotals())
	assert.Equal(t, []int{87, 93}, table.ColTotals())
	assert.Equal(t, 180, table.Total())
	assert.False(t, table.Is2x2())
}

func TestTable_Expected(t *testing.T) {
	table := MustTable([][]int{{13, 15}, {30, 13}, {44, 65}})

	expected, err := table.Expected()
	require.NoError(t, err)

	assert.InDelta(t, 13.5333, expected[0][0], 1e-4)
	assert.InDelta(t, 14.4667, expected[0][1], 1e-4)
	assert.InDelta(t, 52.6833, expected[2][0], 1e-4)

	sum := 0.0
	for _, row := range expected {
		for _, e := range row {
			sum += e
		}
	}
	assert.InDelta(t, 180.0, sum, 1e-9)
}

func TestTable_ExpectedZeroMargin(t *testing.T) {
	_, err := MustTable([][]int{{0, 0}, {3, 4}}).Expected()
	assert.ErrorIs(t, err, core.ErrZeroExpected)

	_, err = MustTable([][]int{{0, 5}, {0, 4}}).Expected()
	assert.ErrorIs(t, err, core.ErrZeroExpected)

	_, err = MustTable([][]int{{0, 0}, {0, 0}}).Expected()
	assert.ErrorIs(t, err, core.ErrEmptyTable)
	assert.True(t, core.IsDegenerate(err))
}

func TestTable_Transpose(t *testing.T) {
	table := MustTable([][]int{{1, 2, 3}, {4, 5, 6}})
	tr := table.Transpose()

	assert.Equal(t, [][]int{{1, 4}, {2, 5}, {3, 6}}, tr.Cells())
	assert.Equal(t, table.Total(), tr.Total())
	assert.Equal(t, table.RowTotals(), tr.ColTotals())
}

func TestParseTable(t *testing.T) {
	table, err := ParseTable("13,15; 30,13 ;44,65")
	require.NoError(t, err)
	assert.Equal(t, "13,15;30,13;44,65", table.String())

	_, err = ParseTable("1,2;x,4")
	assert.True(t, core.IsMalformedInput(err))

	_, err = ParseTable("1,2;3")
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestParseCountsAndProbabilities(t *testing.T) {
	counts, err := ParseCounts("64, 51,50,35")
	require.NoError(t, err)
	assert.Equal(t, Counts{64, 51, 50, 35}, counts)
	assert.Equal(t, 200, counts.Total())

	_, err = ParseCounts("1,-1")
	assert.ErrorIs(t, err, core.ErrNegativeCount)

	probs, err := ParseProbabilities(".3,.3,.2,.2")
	require.NoError(t, err)
	assert.NoError(t, probs.Validate())
}

func TestProbabilities_Validate(t *testing.T) {
	assert.NoError(t, Uniform(4).Validate())
	assert.NoError(t, Uniform(3).Validate())
	assert.ErrorIs(t, Probabilities{0.5, 0.4}.Validate(), core.ErrInvalidProbability)
	assert.ErrorIs(t, Probabilities{1.0, 0}.Validate(), core.ErrInvalidProbability)
	assert.ErrorIs(t, Probabilities{}.Validate(), core.ErrInvalidProbability)
}

func TestParseAlternative(t *testing.T) {
	alt, err := ParseAlternative("")
	require.NoError(t, err)
	assert.Equal(t, TwoSided, alt)

	alt, err = ParseAlternative("greater")
	require.NoError(t, err)
	assert.Equal(t, Greater, alt)

	_, err = ParseAlternative("sideways")
	assert.ErrorIs(t, err, core.ErrInvalidOption)
}
