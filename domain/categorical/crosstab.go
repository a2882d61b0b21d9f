package categorical

import (
	"sort"

	"gochisq/domain/core"
)

// LabeledTable is a contingency table together with its row and column category labels.
type LabeledTable struct {
	RowLabels []string `json:"row_labels"`
	ColLabels []string `json:"col_labels"`
	Table     *Table   `json:"-"`
}

// Pairs holds raw paired categorical observations: Rows[k] and Cols[k] belong to observation k.
type Pairs struct {
	Rows []string `json:"rows"`
	Cols []string `json:"cols"`
}

// Crosstab tabulates the pairs. See the package-level Crosstab.
func (p Pairs) Crosstab() (*LabeledTable, error) {
	return Crosstab(p.Rows, p.Cols)
}

// Crosstab tabulates paired observations: rows[k] and cols[k] are the two categorical
// responses of observation k. Labels are sorted so the layout is deterministic.
func Crosstab(rows, cols []string) (*LabeledTable, error) {
	if len(rows) != len(cols) {
		return nil, core.NewMalformedError(core.ErrDimensionMismatch, "%d row values but %d column values", len(rows), len(cols))
	}
	if len(rows) == 0 {
		return nil, core.NewDegenerateError(core.ErrEmptyTable, "no observations to tabulate")
	}

	rowLabels := distinctSorted(rows)
	colLabels := distinctSorted(cols)
	rowIdx := indexOf(rowLabels)
	colIdx := indexOf(colLabels)

	cells := make([][]int, len(rowLabels))
	for i := range cells {
		cells[i] = make([]int, len(colLabels))
	}
	for k := range rows {
		cells[rowIdx[rows[k]]][colIdx[cols[k]]]++
	}

	return &LabeledTable{
		RowLabels: rowLabels,
		ColLabels: colLabels,
		Table:     &Table{cells: cells},
	}, nil
}

func distinctSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0)
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func indexOf(labels []string) map[string]int {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return idx
}
