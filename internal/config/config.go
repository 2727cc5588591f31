// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Backend names for LEDGER_BACKEND.
const (
	BackendSnapshot = "snapshot"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Config holds everything the binaries need to run.
type Config struct {
	// HTTP server
	Port string

	// Storage backend selection
	Backend      string
	SnapshotPath string
	SQLiteDBPath string
}

// Load reads configuration from environment variables, falling back to
// defaults suitable for local use.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		Backend:      getEnv("LEDGER_BACKEND", BackendSnapshot),
		SnapshotPath: getEnv("LEDGER_SNAPSHOT_PATH", "./data/ledger.yaml.br"),
		SQLiteDBPath: getEnv("LEDGER_SQLITE_PATH", "./data/ledger.db"),
	}
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.Backend {
	case BackendSnapshot:
		if c.SnapshotPath == "" {
			problems = append(problems, "snapshot path cannot be empty when using the snapshot backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			problems = append(problems, "sqlite path cannot be empty when using the sqlite backend")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid backend %q: must be one of %s, %s, %s",
			c.Backend, BackendSnapshot, BackendSQLite, BackendMemory))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
