package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Steps(t *testing.T) {
	runner := NewRunner()
	steps := runner.Steps()
	require.NotEmpty(t, steps)
	assert.Equal(t, "1.0.0", runner.Version())

	assert.Contains(t, steps[0].Statement, "CREATE TABLE IF NOT EXISTS evaluations")

	seen := map[string]bool{}
	for _, step := range steps {
		assert.False(t, seen[step.Name], "duplicate step %q", step.Name)
		seen[step.Name] = true
		assert.True(t, strings.Contains(step.Statement, "IF NOT EXISTS"), "step %q must be idempotent", step.Name)
	}
}

func TestRunner_StepsIsACopy(t *testing.T) {
	runner := NewRunner()
	steps := runner.Steps()
	steps[0].Name = "changed"
	assert.NotEqual(t, "changed", runner.Steps()[0].Name)
}
