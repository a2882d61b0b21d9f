package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gochisq/adapters/stats/evaluators"
	"gochisq/app"
	"gochisq/internal"
	"gochisq/internal/config"
)

func main() {
	_ = godotenv.Load()

	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliState is shared by every subcommand
type cliState struct {
	jsonOutput bool
	service    *app.EvaluationService
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	rootCmd := &cobra.Command{
		Use:           "gochisq",
		Short:         "Chi-square, Fisher exact and McNemar tests on categorical count tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			state.service = svc
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVar(&state.jsonOutput, "json", false, "Print the result record as JSON")

	rootCmd.AddCommand(
		newGoodnessOfFitCmd(state),
		newIndependenceCmd(state),
		newFisherCmd(state),
		newMcNemarCmd(state),
		newDivergenceCmd(state),
		newCriticalCmd(state),
	)
	return rootCmd
}

func newService() (*app.EvaluationService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := internal.NewLogger(cfg.LogLevel)

	engineCfg := evaluators.DefaultEngineConfig()
	engineCfg.Independence.YatesCorrection = cfg.Evaluation.YatesCorrection

	return app.NewEvaluationService(evaluators.NewEngine(engineCfg), nil, logger, app.ServiceConfig{
		DefaultAlpha:     cfg.Evaluation.DefaultAlpha,
		MaxBatchSize:     cfg.Batch.MaxSize,
		BatchConcurrency: cfg.Batch.Concurrency,
	}), nil
}
