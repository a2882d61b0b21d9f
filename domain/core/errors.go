package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Malformed input errors. These are never silently corrected.
	ErrMalformedInput     = errors.New("malformed input")
	ErrNegativeCount      = fmt.Errorf("%w: negative count", ErrMalformedInput)
	ErrDimensionMismatch  = fmt.Errorf("%w: mismatched dimensions", ErrMalformedInput)
	ErrTooFewCategories   = fmt.Errorf("%w: at least two categories required", ErrMalformedInput)
	ErrInvalidProbability = fmt.Errorf("%w: invalid probability vector", ErrMalformedInput)
	ErrUnknownCategory    = fmt.Errorf("%w: unknown category", ErrMalformedInput)
	ErrInvalidOption      = fmt.Errorf("%w: invalid option", ErrMalformedInput)

	// Degenerate computation errors
	ErrDegenerate         = errors.New("degenerate computation")
	ErrZeroExpected       = fmt.Errorf("%w: zero expected frequency", ErrDegenerate)
	ErrNoDiscordantPairs  = fmt.Errorf("%w: no discordant pairs", ErrDegenerate)
	ErrUndefinedStatistic = fmt.Errorf("%w: statistic undefined", ErrDegenerate)
	ErrEmptyTable         = fmt.Errorf("%w: table total is zero", ErrDegenerate)

	// Lookup errors
	ErrNotFound          = errors.New("resource not found")
	ErrEvaluatorNotFound = fmt.Errorf("%w: evaluator", ErrNotFound)
)

// Error constructors with context
func NewMalformedError(base error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", base, fmt.Sprintf(format, args...))
}

func NewDegenerateError(base error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", base, fmt.Sprintf(format, args...))
}

func NewNotFoundError(resource string, name string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, resource, name)
}

// Error checking helpers
func IsMalformedInput(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}

func IsDegenerate(err error) bool {
	return errors.Is(err, ErrDegenerate)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
