package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gochisq/adapters/stats/evaluators"
	"gochisq/domain/categorical"
)

func newGoodnessOfFitCmd(state *cliState) *cobra.Command {
	var probabilities string
	var ddof int
	var alpha float64

	cmd := &cobra.Command{
		Use:   "gof [observed]",
		Short: "Chi-square goodness-of-fit against uniform or given probabilities",
		Long: `Compare observed category counts with the counts expected under a
probability vector. Without --probs every category is equally likely.

Example: gochisq gof 64,51,50,35 --probs 0.3,0.3,0.2,0.2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			observed, err := categorical.ParseCounts(args[0])
			if err != nil {
				return err
			}
			req := evaluators.Request{
				Test:     categorical.TestGoodnessOfFit,
				Observed: observed,
				Options:  evaluators.Options{DDOF: ddof, Alpha: alpha},
			}
			if probabilities != "" {
				probs, err := categorical.ParseProbabilities(probabilities)
				if err != nil {
					return err
				}
				req.Probabilities = probs
			}
			return state.evaluate(cmd, req)
		},
	}

	cmd.Flags().StringVar(&probabilities, "probs", "", "Comma-separated null probabilities (default uniform)")
	cmd.Flags().IntVar(&ddof, "ddof", 0, "Estimated parameters to subtract from the degrees of freedom")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Significance level (default from DEFAULT_ALPHA)")

	return cmd
}

func newIndependenceCmd(state *cliState) *cobra.Command {
	var noYates bool
	var lambda string
	var alpha float64

	cmd := &cobra.Command{
		Use:   "independence [table]",
		Short: "Chi-square test of independence with Cramer's V",
		Long: `Test whether row and column classifications are independent.
Rows are separated by ';' and cells by ','.

Example: gochisq independence "13,15;30,13;44,65"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := categorical.ParseTable(args[0])
			if err != nil {
				return err
			}
			opts := evaluators.Options{Lambda: lambda, Alpha: alpha}
			if cmd.Flags().Changed("no-yates") {
				yates := !noYates
				opts.YatesCorrection = &yates
			}
			return state.evaluate(cmd, evaluators.Request{
				Test:    categorical.TestIndependence,
				Table:   table.Cells(),
				Options: opts,
			})
		},
	}

	cmd.Flags().BoolVar(&noYates, "no-yates", false, "Disable the Yates continuity correction on 2x2 tables")
	cmd.Flags().StringVar(&lambda, "lambda", "", "Power-divergence statistic: pearson|cressie-read|log-likelihood|freeman-tukey|mod-log-likelihood|neyman")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Significance level (default from DEFAULT_ALPHA)")

	return cmd
}

func newFisherCmd(state *cliState) *cobra.Command {
	var alternative string

	cmd := &cobra.Command{
		Use:   "fisher [table]",
		Short: "Fisher exact test on a 2x2 table",
		Long: `Exact test of association for a 2x2 table with small expected counts.

Example: gochisq fisher "3,3;10,0" --alternative less`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := categorical.ParseTable(args[0])
			if err != nil {
				return err
			}
			return state.evaluate(cmd, evaluators.Request{
				Test:    categorical.TestFisherExact,
				Table:   table.Cells(),
				Options: evaluators.Options{Alternative: alternative},
			})
		},
	}

	cmd.Flags().StringVar(&alternative, "alternative", "two-sided", "Alternative hypothesis: two-sided|less|greater")

	return cmd
}

func newMcNemarCmd(state *cliState) *cobra.Command {
	var noCorrection bool

	cmd := &cobra.Command{
		Use:   "mcnemar [table]",
		Short: "McNemar test on a paired 2x2 table",
		Long: `Test for a change in paired binary responses using the discordant cells.

Example: gochisq mcnemar "5,5;25,65"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := categorical.ParseTable(args[0])
			if err != nil {
				return err
			}
			correction := !noCorrection
			return state.evaluate(cmd, evaluators.Request{
				Test:    categorical.TestMcNemar,
				Table:   table.Cells(),
				Options: evaluators.Options{Correction: &correction},
			})
		},
	}

	cmd.Flags().BoolVar(&noCorrection, "no-correction", false, "Disable the continuity correction")

	return cmd
}

func newDivergenceCmd(state *cliState) *cobra.Command {
	var noYates bool

	cmd := &cobra.Command{
		Use:   "divergence [table]",
		Short: "Independence test under every power-divergence statistic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := categorical.ParseTable(args[0])
			if err != nil {
				return err
			}
			var opts evaluators.Options
			if cmd.Flags().Changed("no-yates") {
				yates := !noYates
				opts.YatesCorrection = &yates
			}
			rows, err := state.service.PowerDivergence(cmd.Context(), table.Cells(), opts)
			if err != nil {
				return err
			}
			if state.jsonOutput {
				return printJSON(cmd.OutOrStdout(), rows)
			}
			printDivergence(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noYates, "no-yates", false, "Disable the Yates continuity correction on 2x2 tables")

	return cmd
}

func newCriticalCmd(state *cliState) *cobra.Command {
	var alpha float64

	cmd := &cobra.Command{
		Use:   "critical [df]",
		Short: "Chi-square critical value for a significance level",
		Long: `Print the chi-square value exceeded with probability alpha.

Example: gochisq critical 3 --alpha 0.05`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid df %q: %w", args[0], err)
			}
			crit, err := state.service.CriticalValue(alpha, df)
			if err != nil {
				return err
			}
			if state.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"alpha":          alpha,
					"df":             df,
					"critical_value": crit,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.4f\n", crit)
			return nil
		},
	}

	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Significance level")

	return cmd
}

func (s *cliState) evaluate(cmd *cobra.Command, req evaluators.Request) error {
	evaluation, err := s.service.Evaluate(cmd.Context(), req)
	if err != nil {
		return err
	}
	if s.jsonOutput {
		return printJSON(cmd.OutOrStdout(), evaluation)
	}
	printEvaluation(cmd.OutOrStdout(), evaluation)
	return nil
}
