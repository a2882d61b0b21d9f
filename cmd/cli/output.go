package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"gochisq/adapters/stats/evaluators"
	"gochisq/domain/categorical"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func printEvaluation(w io.Writer, evaluation *categorical.Evaluation) {
	result := evaluation.Result

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Measure", "Value"})
	table.Append([]string{"test", evaluation.Test.String()})
	if result.Statistic != nil {
		table.Append([]string{"statistic", formatFloat(*result.Statistic)})
	}
	if result.DF != nil {
		table.Append([]string{"df", strconv.Itoa(*result.DF)})
	}
	table.Append([]string{"p-value", formatFloat(result.PValue)})
	if result.EffectSize != nil {
		table.Append([]string{"effect size", formatFloat(*result.EffectSize)})
	}

	names := make([]string, 0, len(result.Extras))
	for name := range result.Extras {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		table.Append([]string{name, formatFloat(result.Extras[name])})
	}
	table.Append([]string{fmt.Sprintf("significant at %v", evaluation.Alpha), strconv.FormatBool(evaluation.Significant)})
	table.Render()

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning.Message)
	}
}

func printDivergence(w io.Writer, rows []evaluators.LambdaResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Test", "Lambda", "Chi2", "DoF", "p-value", "Cramer", "Power"})
	for _, row := range rows {
		r := row.Result
		power, _ := r.Extra("power")
		table.Append([]string{
			row.Lambda.Name,
			formatFloat(row.Lambda.Value),
			formatFloat(*r.Statistic),
			strconv.Itoa(*r.DF),
			formatFloat(r.PValue),
			formatFloat(*r.EffectSize),
			formatFloat(power),
		})
	}
	table.Render()
}
