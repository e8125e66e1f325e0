package cmd_test

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"tracking/cmd"
	"tracking/internal/adapters/out/umov"
	"tracking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"HTTP_PORT", "HTTP_REQUEST_TIMEOUT", "SHUTDOWN_TIMEOUT",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "DB_AUTO_MIGRATE",
	"LOG_LEVEL", "LOG_FORMAT",
	"UMOV_BASE_URL", "UMOV_DELIVERY_TOKEN", "UMOV_ASSEMBLY_TOKEN",
	"UMOV_DELIVERY_LOOKUP_PARAM", "UMOV_ASSEMBLY_LOOKUP_PARAM",
	"UMOV_HISTORY_WINDOW_START", "UMOV_HISTORY_WINDOW_END",
	"UMOV_REQUEST_TIMEOUT", "UMOV_MAX_RETRIES", "UMOV_BREAKER_THRESHOLD", "UMOV_BREAKER_COOLDOWN",
	"RECONCILE_CONCURRENCY", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "FEED_CACHE_TTL",
	"PROBE_SCHEDULE", "METRICS_ENABLED",
}

// clearEnv unsets every configuration variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "tracking")
	t.Setenv("DB_NAME", "tracking")
	t.Setenv("UMOV_DELIVERY_TOKEN", "tok-delivery")
	t.Setenv("UMOV_ASSEMBLY_TOKEN", "tok-assembly")
}

func TestLoadConfig(t *testing.T) {
	t.Run("should apply defaults", func(t *testing.T) {
		clearEnv(t)

		cfg := cmd.LoadConfig()

		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, "disable", cfg.DBSslMode)
		assert.False(t, cfg.DBAutoMigrate)
		assert.Equal(t, "INFO", cfg.LogLevel)
		assert.Equal(t, "TEXT", cfg.LogFormat)
		assert.Equal(t, umov.DefaultBaseURL, cfg.Umov.BaseURL)
		assert.Equal(t, "transacao", cfg.Umov.Delivery.LookupParam)
		assert.Equal(t, "n_pedido", cfg.Umov.Assembly.LookupParam)
		assert.Equal(t, umov.DefaultWindowStart, cfg.Umov.WindowStart)
		assert.Equal(t, umov.DefaultWindowEnd, cfg.Umov.WindowEnd)
		assert.Equal(t, 10*time.Second, cfg.Umov.RequestTimeout)
		assert.Equal(t, 2, cfg.Umov.MaxRetries)
		assert.Equal(t, 5, cfg.Umov.BreakerThreshold)
		assert.Equal(t, 30*time.Second, cfg.Umov.BreakerCooldown)
		assert.Equal(t, 4, cfg.ReconcileConcurrency)
		assert.Empty(t, cfg.RedisAddr)
		assert.Equal(t, time.Minute, cfg.FeedCacheTTL)
		assert.Equal(t, "@every 1m", cfg.ProbeSchedule)
		assert.True(t, cfg.MetricsEnabled)
	})

	t.Run("should read overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HTTP_PORT", "9090")
		t.Setenv("DB_AUTO_MIGRATE", "true")
		t.Setenv("UMOV_ASSEMBLY_LOOKUP_PARAM", "pedido")
		t.Setenv("UMOV_REQUEST_TIMEOUT", "3s")
		t.Setenv("UMOV_MAX_RETRIES", "0")
		t.Setenv("RECONCILE_CONCURRENCY", "8")
		t.Setenv("REDIS_ADDR", "redis:6379")
		t.Setenv("REDIS_DB", "2")
		t.Setenv("FEED_CACHE_TTL", "5m")
		t.Setenv("PROBE_SCHEDULE", "")
		t.Setenv("METRICS_ENABLED", "false")

		cfg := cmd.LoadConfig()

		assert.Equal(t, "9090", cfg.HTTPPort)
		assert.True(t, cfg.DBAutoMigrate)
		assert.Equal(t, "pedido", cfg.Umov.Assembly.LookupParam)
		assert.Equal(t, 3*time.Second, cfg.Umov.RequestTimeout)
		assert.Equal(t, 0, cfg.Umov.MaxRetries)
		assert.Equal(t, 8, cfg.ReconcileConcurrency)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, 2, cfg.RedisDB)
		assert.Equal(t, 5*time.Minute, cfg.FeedCacheTTL)
		assert.Empty(t, cfg.ProbeSchedule)
		assert.False(t, cfg.MetricsEnabled)
	})

	t.Run("should fall back on unparseable values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("UMOV_MAX_RETRIES", "many")
		t.Setenv("FEED_CACHE_TTL", "soon")
		t.Setenv("METRICS_ENABLED", "maybe")

		cfg := cmd.LoadConfig()

		assert.Equal(t, 2, cfg.Umov.MaxRetries)
		assert.Equal(t, time.Minute, cfg.FeedCacheTTL)
		assert.True(t, cfg.MetricsEnabled)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("should accept a complete configuration", func(t *testing.T) {
		clearEnv(t)
		setRequired(t)

		require.NoError(t, cmd.LoadConfig().Validate())
	})

	t.Run("should report every missing value", func(t *testing.T) {
		clearEnv(t)

		err := cmd.LoadConfig().Validate()

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		for _, name := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_NAME", "delivery token", "assembly token"} {
			assert.Contains(t, err.Error(), name)
		}
	})

	t.Run("should reject a non-positive concurrency", func(t *testing.T) {
		clearEnv(t)
		setRequired(t)
		t.Setenv("RECONCILE_CONCURRENCY", "0")

		err := cmd.LoadConfig().Validate()

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject an inverted history window", func(t *testing.T) {
		clearEnv(t)
		setRequired(t)
		t.Setenv("UMOV_HISTORY_WINDOW_START", "2030-01-01 00:00:00")
		t.Setenv("UMOV_HISTORY_WINDOW_END", "2025-01-01 00:00:00")

		err := cmd.LoadConfig().Validate()

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestConfig_DSN(t *testing.T) {
	cfg := cmd.Config{
		DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "n", DBSslMode: "disable",
	}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.DSN())
}

func TestSetupLogger(t *testing.T) {
	t.Run("should write json at the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := cmd.SetupLogger(cmd.Config{LogLevel: "warn", LogFormat: "json"}, &buf)

		logger.Info("hidden")
		logger.Warn("shown", "feed", "delivery")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], `"msg":"shown"`)
		assert.Contains(t, lines[0], `"feed":"delivery"`)
	})

	t.Run("should default to text at info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := cmd.SetupLogger(cmd.Config{LogLevel: "verbose"}, &buf)

		logger.Debug("hidden")
		logger.Info("shown")

		assert.Equal(t, 1, strings.Count(buf.String(), "msg=shown"))
		assert.NotContains(t, buf.String(), "hidden")
	})
}
