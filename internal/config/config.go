package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gochisq/internal"
	"gochisq/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Evaluation EvaluationConfig
	Batch      BatchConfig
	LogLevel   internal.LogLevel
}

// DatabaseConfig holds the evaluation ledger connection. An empty URL keeps the ledger in memory.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
}

// EvaluationConfig holds defaults applied when a request leaves an option unset
type EvaluationConfig struct {
	DefaultAlpha    float64
	YatesCorrection bool
}

// BatchConfig bounds batch evaluation
type BatchConfig struct {
	MaxSize     int
	Concurrency int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database:   *loadDatabaseConfig(),
		Server:     *loadServerConfig(),
		Evaluation: *loadEvaluationConfig(),
		Batch:      *loadBatchConfig(),
	}

	level, ok := internal.ParseLogLevel(getEnvOrDefault("LOG_LEVEL", "INFO"))
	if !ok {
		return nil, errors.ConfigInvalid(fmt.Sprintf("LOG_LEVEL %q is not one of ERROR, WARN, INFO, DEBUG, TRACE", os.Getenv("LOG_LEVEL")))
	}
	config.LogLevel = level

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:          getEnvOrDefault("DATABASE_URL", ""),
		MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		RequestTimeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
	}
}

func loadEvaluationConfig() *EvaluationConfig {
	return &EvaluationConfig{
		DefaultAlpha:    getEnvFloatOrDefault("DEFAULT_ALPHA", 0.05),
		YatesCorrection: getEnvBoolOrDefault("YATES_CORRECTION", true),
	}
}

func loadBatchConfig() *BatchConfig {
	return &BatchConfig{
		MaxSize:     getEnvIntOrDefault("MAX_BATCH_SIZE", 100),
		Concurrency: getEnvIntOrDefault("BATCH_CONCURRENCY", 4),
	}
}

func validateConfig(config *Config) error {
	if config.Database.URL != "" && config.Database.MaxOpenConns < 1 {
		return errors.ConfigInvalid("database max open connections must be at least 1")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("port is required")
	}
	if config.Server.RequestTimeout <= 0 {
		return errors.ConfigInvalid("request timeout must be positive")
	}
	if alpha := config.Evaluation.DefaultAlpha; alpha <= 0 || alpha >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("default alpha %v must lie in (0, 1)", alpha))
	}
	if config.Batch.MaxSize < 1 {
		return errors.ConfigInvalid("max batch size must be at least 1")
	}
	if config.Batch.Concurrency < 1 {
		return errors.ConfigInvalid("batch concurrency must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
