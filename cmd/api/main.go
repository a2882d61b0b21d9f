package main

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gochisq/adapters/api"
	"gochisq/adapters/memory"
	"gochisq/adapters/postgres"
	"gochisq/adapters/stats/evaluators"
	"gochisq/app"
	"gochisq/internal"
	"gochisq/internal/config"
	"gochisq/internal/migration"
	"gochisq/ports"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(cfg.LogLevel)

	ledger, closeLedger, err := setupLedger(cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to set up evaluation ledger: %v", err)
	}
	defer closeLedger()

	engineCfg := evaluators.DefaultEngineConfig()
	engineCfg.Independence.YatesCorrection = cfg.Evaluation.YatesCorrection

	service := app.NewEvaluationService(evaluators.NewEngine(engineCfg), ledger, logger, app.ServiceConfig{
		DefaultAlpha:     cfg.Evaluation.DefaultAlpha,
		MaxBatchSize:     cfg.Batch.MaxSize,
		BatchConcurrency: cfg.Batch.Concurrency,
	})

	server := api.NewServer(service, logger, api.Config{
		Port:           cfg.Server.Port,
		RequestTimeout: cfg.Server.RequestTimeout,
	})
	if err := server.Start(); err != nil {
		logger.Error("Server failed: %v", err)
	}
}

func setupLedger(cfg config.DatabaseConfig, logger *internal.Logger) (ports.LedgerPort, func(), error) {
	if cfg.URL == "" {
		logger.Info("DATABASE_URL not set, recording evaluations in memory")
		return memory.NewInMemoryLedgerAdapter(), func() {}, nil
	}

	db, err := sqlx.Connect("postgres", cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Info("evaluation ledger schema at version %s", runner.Version())

	return postgres.NewEvaluationRepository(db), func() { db.Close() }, nil
}
