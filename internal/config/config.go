package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL       string
	HTTPListenAddr    string
	MetricsListenAddr string
	LogLevel          string
	ServiceName       string

	// SubscriptionWarnWindow is how long before a subscription's end date the
	// derived status turns expiring_soon.
	SubscriptionWarnWindow time.Duration

	MigrationsDir   string
	PlanCatalogPath string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
}

func Load() (*Config, error) {
	warnDays, err := getEnvInt("SUBSCRIPTION_WARN_DAYS", 7)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		HTTPListenAddr:         getEnv("HTTP_LISTEN_ADDR", ":8090"),
		MetricsListenAddr:      getEnv("METRICS_LISTEN_ADDR", ":9090"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		ServiceName:            getEnv("SERVICE_NAME", "comptabook-api"),
		SubscriptionWarnWindow: time.Duration(warnDays) * 24 * time.Hour,
		MigrationsDir:          getEnv("MIGRATIONS_DIR", "migrations/core"),
		PlanCatalogPath:        getEnv("PLAN_CATALOG_PATH", "seeds/plans.yaml"),
		S3Endpoint:             getEnv("S3_ENDPOINT", ""),
		S3Region:               getEnv("S3_REGION", "us-east-1"),
		S3Bucket:               getEnv("S3_BUCKET", "comptabook-documents"),
		S3AccessKey:            getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:            getEnv("S3_SECRET_KEY", ""),
	}

	return cfg, nil
}

// Validate checks that the settings the service cannot run without are set.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SubscriptionWarnWindow < 0 {
		return fmt.Errorf("SUBSCRIPTION_WARN_DAYS must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
