package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"tracking/internal/adapters/out/umov"
	"tracking/internal/pkg/errs"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort           string
	HTTPRequestTimeout time.Duration
	ShutdownTimeout    time.Duration

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string
	DBAutoMigrate bool

	LogLevel  string
	LogFormat string

	Umov                 umov.Config
	ReconcileConcurrency int

	// RedisAddr enables the feed cache when set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	FeedCacheTTL  time.Duration

	// ProbeSchedule is a cron spec; empty disables the provider probe.
	ProbeSchedule  string
	MetricsEnabled bool
}

// LoadConfig reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables win.
func LoadConfig() Config {
	_ = godotenv.Load()

	defaults := umov.DefaultConfig()

	return Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		HTTPRequestTimeout: getEnvDuration("HTTP_REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DBHost:        getEnv("DB_HOST", ""),
		DBPort:        getEnv("DB_PORT", ""),
		DBUser:        getEnv("DB_USER", ""),
		DBPassword:    getEnv("DB_PASSWORD", ""),
		DBName:        getEnv("DB_NAME", ""),
		DBSslMode:     getEnv("DB_SSLMODE", "disable"),
		DBAutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),

		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		LogFormat: getEnv("LOG_FORMAT", "TEXT"),

		Umov: umov.Config{
			BaseURL: getEnv("UMOV_BASE_URL", defaults.BaseURL),
			Delivery: umov.FeedConfig{
				Token:       getEnv("UMOV_DELIVERY_TOKEN", ""),
				LookupParam: getEnv("UMOV_DELIVERY_LOOKUP_PARAM", defaults.Delivery.LookupParam),
			},
			Assembly: umov.FeedConfig{
				Token:       getEnv("UMOV_ASSEMBLY_TOKEN", ""),
				LookupParam: getEnv("UMOV_ASSEMBLY_LOOKUP_PARAM", defaults.Assembly.LookupParam),
			},
			WindowStart:      getEnv("UMOV_HISTORY_WINDOW_START", defaults.WindowStart),
			WindowEnd:        getEnv("UMOV_HISTORY_WINDOW_END", defaults.WindowEnd),
			RequestTimeout:   getEnvDuration("UMOV_REQUEST_TIMEOUT", defaults.RequestTimeout),
			MaxRetries:       getEnvInt("UMOV_MAX_RETRIES", defaults.MaxRetries),
			RetryMinDelay:    defaults.RetryMinDelay,
			RetryMaxDelay:    defaults.RetryMaxDelay,
			BreakerThreshold: getEnvInt("UMOV_BREAKER_THRESHOLD", defaults.BreakerThreshold),
			BreakerCooldown:  getEnvDuration("UMOV_BREAKER_COOLDOWN", defaults.BreakerCooldown),
		},
		ReconcileConcurrency: getEnvInt("RECONCILE_CONCURRENCY", 4),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		FeedCacheTTL:  getEnvDuration("FEED_CACHE_TTL", 60*time.Second),

		ProbeSchedule:  getEnv("PROBE_SCHEDULE", "@every 1m"),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}
}

// Validate checks the configuration and joins every problem found.
func (c Config) Validate() error {
	var errList []error

	if c.HTTPPort == "" {
		errList = append(errList, errs.NewValueIsRequiredError("HTTP_PORT"))
	}
	for _, required := range []struct{ name, value string }{
		{"DB_HOST", c.DBHost},
		{"DB_PORT", c.DBPort},
		{"DB_USER", c.DBUser},
		{"DB_NAME", c.DBName},
	} {
		if required.value == "" {
			errList = append(errList, errs.NewValueIsRequiredError(required.name))
		}
	}
	if c.ReconcileConcurrency < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("RECONCILE_CONCURRENCY", c.ReconcileConcurrency, 1, "-"))
	}
	if c.RedisAddr != "" && c.FeedCacheTTL <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("FEED_CACHE_TTL", c.FeedCacheTTL, "1ns", "-"))
	}
	if err := c.Umov.Validate(); err != nil {
		errList = append(errList, err)
	}

	return errors.Join(errList...)
}

// DSN builds the Postgres connection string from the DB_* parts.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return fallback
}
