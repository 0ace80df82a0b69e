// Package config loads bridgec settings from environment variables.
package config

import (
	"os"
	"strconv"
)

// Config holds the application's configuration.
type Config struct {
	DatabasePath  string
	Debug         bool
	RetentionRuns int
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	cfg := &Config{
		DatabasePath:  os.Getenv("BRIDGEC_DB"),
		RetentionRuns: 20, // Default value
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = ".bridgec/staging.db"
	}

	if debugStr := os.Getenv("BRIDGEC_DEBUG"); debugStr != "" {
		if debug, err := strconv.ParseBool(debugStr); err == nil {
			cfg.Debug = debug
		}
	}

	if retentionStr := os.Getenv("BRIDGEC_RETENTION_RUNS"); retentionStr != "" {
		if retention, err := strconv.Atoi(retentionStr); err == nil && retention >= 0 {
			cfg.RetentionRuns = retention
		}
	}

	return cfg
}
