package categorical

import "fmt"

// Warning codes for assumption violations. Warnings never fail an evaluation.
const (
	WarnExpectedBelowOne  = "expected_below_one"
	WarnExpectedBelowFive = "expected_below_five"
)

// SmallExpectedFraction is the share of cells allowed below five before warning.
const SmallExpectedFraction = 0.2

// Warning flags an assumption violation on an otherwise valid result
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CheckExpected flags expected frequencies too small for the chi-square approximation:
// any cell below 1, or more than 20% of cells below 5. Callers seeing these warnings on
// a 2x2 table should prefer the Fisher exact test.
func CheckExpected(expected [][]float64) []Warning {
	var warnings []Warning
	cells, belowOne, belowFive := 0, 0, 0
	minExpected := 0.0
	for _, row := range expected {
		for _, e := range row {
			if cells == 0 || e < minExpected {
				minExpected = e
			}
			cells++
			if e < 1 {
				belowOne++
			}
			if e < 5 {
				belowFive++
			}
		}
	}
	if cells == 0 {
		return nil
	}

	if belowOne > 0 {
		warnings = append(warnings, Warning{
			Code:    WarnExpectedBelowOne,
			Message: fmt.Sprintf("%d expected cell(s) below 1 (minimum %.3f)", belowOne, minExpected),
		})
	}
	if float64(belowFive)/float64(cells) > SmallExpectedFraction {
		warnings = append(warnings, Warning{
			Code:    WarnExpectedBelowFive,
			Message: fmt.Sprintf("%d of %d expected cells below 5", belowFive, cells),
		})
	}
	return warnings
}

// CheckExpectedFlat is CheckExpected for a single row of expected frequencies.
func CheckExpectedFlat(expected []float64) []Warning {
	return CheckExpected([][]float64{expected})
}
