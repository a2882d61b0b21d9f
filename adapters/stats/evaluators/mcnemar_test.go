package evaluators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gochisq/domain/categorical"
	"gochisq/domain/core"
)

// response before (rows) by response after (cols) for 100 voters
var agppTable = [][]int{{5, 5}, {25, 65}}

func TestMcNemar_KnownTable(t *testing.T) {
	result, err := McNemar(categorical.MustTable(agppTable), DefaultMcNemarOptions())
	require.NoError(t, err)

	assert.Equal(t, categorical.TestMcNemar, result.Test)
	assert.InDelta(t, 12.03, *result.Statistic, 0.01)
	assert.Equal(t, 1, *result.DF)
	assert.Less(t, result.PValue, 0.001)
	assert.InDelta(t, 0.000523, result.PValue, 1e-6)

	exact, ok := result.Extra("p_exact")
	require.True(t, ok)
	assert.InDelta(t, 0.000325, exact, 1e-6)
}

func TestMcNemar_WithoutCorrection(t *testing.T) {
	result, err := McNemar(categorical.MustTable(agppTable), McNemarOptions{Correction: false})
	require.NoError(t, err)
	assert.InDelta(t, 400.0/30.0, *result.Statistic, 1e-12)
}

func TestMcNemar_IgnoresConcordantCells(t *testing.T) {
	a, err := McNemar(categorical.MustTable([][]int{{5, 5}, {25, 65}}), DefaultMcNemarOptions())
	require.NoError(t, err)
	b, err := McNemar(categorical.MustTable([][]int{{500, 5}, {25, 1}}), DefaultMcNemarOptions())
	require.NoError(t, err)

	assert.Equal(t, *a.Statistic, *b.Statistic)
	assert.Equal(t, a.PValue, b.PValue)
}

func TestMcNemar_BalancedDiscordance(t *testing.T) {
	result, err := McNemar(categorical.MustTable([][]int{{10, 7}, {7, 10}}), DefaultMcNemarOptions())
	require.NoError(t, err)
	assert.Equal(t, 0.0, *result.Statistic)
	assert.Equal(t, 1.0, result.PValue)

	exact, _ := result.Extra("p_exact")
	assert.Equal(t, 1.0, exact)
}

func TestMcNemar_Errors(t *testing.T) {
	_, err := McNemar(categorical.MustTable([][]int{{40, 0}, {0, 60}}), DefaultMcNemarOptions())
	assert.ErrorIs(t, err, core.ErrNoDiscordantPairs)
	assert.True(t, core.IsDegenerate(err))

	_, err = McNemar(categorical.MustTable([][]int{{1, 2, 3}, {4, 5, 6}}), DefaultMcNemarOptions())
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestMcNemarEvaluator_Request(t *testing.T) {
	ev := NewMcNemarEvaluator(DefaultMcNemarOptions())
	off := false

	result, err := ev.Evaluate(context.Background(), Request{Table: agppTable, Options: Options{Correction: &off}})
	require.NoError(t, err)
	assert.InDelta(t, 400.0/30.0, *result.Statistic, 1e-12)
	_, corrected := result.Extra("correction")
	assert.False(t, corrected)
}
