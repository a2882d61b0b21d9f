package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gochisq/internal"
	"gochisq/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "DEFAULT_ALPHA", "YATES_CORRECTION", "MAX_BATCH_SIZE", "BATCH_CONCURRENCY", "REQUEST_TIMEOUT", "DATABASE_URL", "DB_MAX_OPEN_CONNS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 0.05, cfg.Evaluation.DefaultAlpha)
	assert.True(t, cfg.Evaluation.YatesCorrection)
	assert.Equal(t, 100, cfg.Batch.MaxSize)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, internal.LogLevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEFAULT_ALPHA", "0.01")
	t.Setenv("YATES_CORRECTION", "false")
	t.Setenv("MAX_BATCH_SIZE", "10")
	t.Setenv("BATCH_CONCURRENCY", "2")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("DATABASE_URL", "postgres://localhost/gochisq?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 0.01, cfg.Evaluation.DefaultAlpha)
	assert.False(t, cfg.Evaluation.YatesCorrection)
	assert.Equal(t, 10, cfg.Batch.MaxSize)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
	assert.Equal(t, internal.LogLevelDebug, cfg.LogLevel)
	assert.Equal(t, "postgres://localhost/gochisq?sslmode=disable", cfg.Database.URL)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"DEFAULT_ALPHA":     "1.5",
		"MAX_BATCH_SIZE":    "0",
		"BATCH_CONCURRENCY": "-1",
		"LOG_LEVEL":         "chatty",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
