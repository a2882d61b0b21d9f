package categorical

import (
	"strconv"
	"strings"

	"gochisq/domain/core"
)

// ParseCounts parses "64,51,50,35".
func ParseCounts(s string) (Counts, error) {
	fields := strings.Split(strings.TrimSpace(s), ",")
	counts := make(Counts, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, core.NewMalformedError(core.ErrMalformedInput, "count %q is not an integer", f)
		}
		counts = append(counts, v)
	}
	if err := counts.Validate(); err != nil {
		return nil, err
	}
	return counts, nil
}

// ParseProbabilities parses ".3,.3,.2,.2".
func ParseProbabilities(s string) (Probabilities, error) {
	fields := strings.Split(strings.TrimSpace(s), ",")
	probs := make(Probabilities, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, core.NewMalformedError(core.ErrInvalidProbability, "%q is not a number", f)
		}
		probs = append(probs, v)
	}
	return probs, nil
}

// ParseTable parses a table literal with rows separated by ';' and cells by ',',
// for example "13,15;30,13;44,65".
func ParseTable(s string) (*Table, error) {
	rowStrs := strings.Split(strings.TrimSpace(s), ";")
	rows := make([][]int, 0, len(rowStrs))
	for _, r := range rowStrs {
		if strings.TrimSpace(r) == "" {
			continue
		}
		fields := strings.Split(r, ",")
		row := make([]int, len(fields))
		for j, f := range fields {
			v, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, core.NewMalformedError(core.ErrMalformedInput, "cell %q is not an integer", f)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return NewTable(rows)
}
