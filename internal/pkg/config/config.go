// Package config reads the storefront settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Config struct {
	HTTPAddr        string
	LogLevel        string
	CatalogSource   string
	DealsFile       string
	StorageDriver   string
	SQLitePath      string
	RedisAddr       string
	Namespace       string
	TracingEnabled  bool
	OTLPEndpoint    string
	ServiceName     string
	ShutdownTimeout time.Duration
}

// Load builds a Config from environment variables, falling back to
// defaults suited to a local run.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CatalogSource: getEnv("CATALOG_SOURCE", "data/pizzas.json"),
		DealsFile:     os.Getenv("DEALS_FILE"),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverSQLite)),
		SQLitePath:    getEnv("SQLITE_PATH", "data/storefront.db"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Namespace:     getEnv("STORAGE_NAMESPACE", "pizzeria"),
		OTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		ServiceName:   getEnv("OTEL_SERVICE_NAME", "storefront"),
	}

	var err error
	if cfg.TracingEnabled, err = getEnvBool("TRACING_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}

	switch cfg.StorageDriver {
	case DriverSQLite, DriverRedis, DriverMemory:
	default:
		return Config{}, fmt.Errorf("config: STORAGE_DRIVER %q: want sqlite, redis or memory", cfg.StorageDriver)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
