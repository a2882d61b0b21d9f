package categorical

import (
	"fmt"
	"strings"

	"gochisq/domain/core"
)

// Table is an r x c contingency table of observed counts. Rows index the first
// categorical variable, columns the second.
type Table struct {
	cells [][]int
}

// NewTable validates and deep-copies rows into a Table. Rows must be non-empty,
// rectangular and non-negative.
func NewTable(rows [][]int) (*Table, error) {
	if len(rows) == 0 {
		return nil, core.NewMalformedError(core.ErrDimensionMismatch, "table has no rows")
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, core.NewMalformedError(core.ErrDimensionMismatch, "table has no columns")
	}

	cells := make([][]int, len(rows))
	for i, row := range rows {
		if len(row) != cols {
			return nil, core.NewMalformedError(core.ErrDimensionMismatch, "row %d has %d columns, want %d", i, len(row), cols)
		}
		for j, v := range row {
			if v < 0 {
				return nil, core.NewMalformedError(core.ErrNegativeCount, "cell (%d,%d) has count %d", i, j, v)
			}
		}
		cells[i] = append([]int(nil), row...)
	}
	return &Table{cells: cells}, nil
}

// MustTable is NewTable for literals known to be valid. It panics on error.
func MustTable(rows [][]int) *Table {
	t, err := NewTable(rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Rows returns r
func (t *Table) Rows() int { return len(t.cells) }

// Cols returns c
func (t *Table) Cols() int { return len(t.cells[0]) }

// Cell returns the observed count at row i, column j
func (t *Table) Cell(i, j int) int { return t.cells[i][j] }

// Is2x2 reports whether the table has exactly two rows and two columns.
func (t *Table) Is2x2() bool { return t.Rows() == 2 && t.Cols() == 2 }

// Cells returns a copy of the underlying counts.
func (t *Table) Cells() [][]int {
	out := make([][]int, len(t.cells))
	for i, row := range t.cells {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// RowTotals returns Rᵢ for every row
func (t *Table) RowTotals() []int {
	totals := make([]int, t.Rows())
	for i, row := range t.cells {
		for _, v := range row {
			totals[i] += v
		}
	}
	return totals
}

// ColTotals returns Cⱼ for every column
func (t *Table) ColTotals() []int {
	totals := make([]int, t.Cols())
	for _, row := range t.cells {
		for j, v := range row {
			totals[j] += v
		}
	}
	return totals
}

// Total returns the grand total N
func (t *Table) Total() int {
	n := 0
	for _, row := range t.cells {
		for _, v := range row {
			n += v
		}
	}
	return n
}

// Transpose swaps rows and columns.
func (t *Table) Transpose() *Table {
	out := make([][]int, t.Cols())
	for j := range out {
		out[j] = make([]int, t.Rows())
		for i := range t.cells {
			out[j][i] = t.cells[i][j]
		}
	}
	return &Table{cells: out}
}

// Expected returns Eᵢⱼ = Rᵢ·Cⱼ/N. A zero row or column total makes a cell undefined and
// is reported as ErrZeroExpected rather than skipped.
func (t *Table) Expected() ([][]float64, error) {
	n := t.Total()
	if n == 0 {
		return nil, core.NewDegenerateError(core.ErrEmptyTable, "no observations")
	}
	rowTotals := t.RowTotals()
	colTotals := t.ColTotals()
	for i, r := range rowTotals {
		if r == 0 {
			return nil, core.NewDegenerateError(core.ErrZeroExpected, "row %d total is zero", i)
		}
	}
	for j, c := range colTotals {
		if c == 0 {
			return nil, core.NewDegenerateError(core.ErrZeroExpected, "column %d total is zero", j)
		}
	}

	expected := make([][]float64, len(rowTotals))
	for i := range expected {
		expected[i] = make([]float64, len(colTotals))
		for j := range expected[i] {
			expected[i][j] = float64(rowTotals[i]) * float64(colTotals[j]) / float64(n)
		}
	}
	return expected, nil
}

// String renders the table as "a,b;c,d", the literal form accepted by ParseTable.
func (t *Table) String() string {
	rows := make([]string, len(t.cells))
	for i, row := range t.cells {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprintf("%d", v)
		}
		rows[i] = strings.Join(cells, ",")
	}
	return strings.Join(rows, ";")
}
