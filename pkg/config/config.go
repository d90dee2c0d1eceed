// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Source names where datasets are loaded from
type Source string

const (
	SourcePostgres  Source = "postgres"
	SourceSnowflake Source = "snowflake"
	SourceWorkbook  Source = "workbook"
)

// Config represents the application configuration
type Config struct {
	// Dataset source
	Source       Source
	WorkbookPath string   // Path to .xlsx file when Source is workbook
	Schemas      []string // Schemas to ingest when Source is a database

	// Database connections
	Snowflake *SnowflakeConfig
	Postgres  *PostgresConfig

	// Inference settings
	SampleSize     int  // Rows sampled per column for type probing
	AutoPromote    bool // Convert string columns that classify as a narrower type
	WorkerPoolSize int  // 0 means use runtime.NumCPU()

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from the environment, reading a .env
// file first when one is present
func LoadConfig() (*Config, error) {
	// Missing .env is fine; real environments set variables directly
	_ = godotenv.Load()

	cfg := &Config{
		Source:         Source(getEnv("DATASET_SOURCE", "postgres")),
		WorkbookPath:   getEnv("WORKBOOK_PATH", ""),
		Schemas:        getEnvAsSlice("SOURCE_SCHEMAS", []string{"public"}),
		SampleSize:     getEnvAsInt("SAMPLE_SIZE", 100),
		AutoPromote:    getEnvAsBool("AUTO_PROMOTE_COLUMNS", true),
		WorkerPoolSize: getEnvAsInt("WORKER_POOL_SIZE", 0),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}

	// The audit trail always lives in Postgres, so that config is
	// required regardless of source
	pgConfig, err := LoadPostgresConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load PostgreSQL configuration: %w", err)
	}
	cfg.Postgres = pgConfig

	if cfg.Source == SourceSnowflake {
		snowConfig, err := LoadSnowflakeConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load Snowflake configuration: %w", err)
		}
		cfg.Snowflake = snowConfig
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	switch c.Source {
	case SourcePostgres, SourceSnowflake:
		if len(c.Schemas) == 0 {
			return errors.New("at least one source schema is required")
		}
	case SourceWorkbook:
		if c.WorkbookPath == "" {
			return errors.New("WORKBOOK_PATH is required for the workbook source")
		}
	default:
		return fmt.Errorf("unknown dataset source: %s", c.Source)
	}

	if c.Postgres == nil {
		return errors.New("postgreSQL configuration is required")
	}

	if c.Source == SourceSnowflake && c.Snowflake == nil {
		return errors.New("snowflake configuration is required")
	}

	if c.SampleSize <= 0 {
		return errors.New("sample size must be positive")
	}

	if c.WorkerPoolSize < 0 {
		return errors.New("worker pool size cannot be negative")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
