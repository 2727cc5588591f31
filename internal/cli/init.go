// Package cli provides the initialization shared by the grouptab
// binaries: env loading, config, logging and storage backend wiring.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/grouptab/grouptab/internal/config"
	"github.com/grouptab/grouptab/internal/storage"
	"github.com/grouptab/grouptab/internal/storage/memory"
	"github.com/grouptab/grouptab/internal/storage/snapshot"
	"github.com/grouptab/grouptab/internal/storage/sqlite"
	"github.com/grouptab/grouptab/pkg/logging"
)

// Setup loads the optional .env file, configures logging and returns a
// validated config. It exits the process on configuration errors since
// no binary can do anything useful without a valid config.
func Setup() *config.Config {
	// .env is optional; production sets real env vars.
	_ = godotenv.Load()
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore wires the storage backend selected by the config.
func OpenStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		slog.Debug("Storage initialized", "backend", cfg.Backend, "path", cfg.SQLiteDBPath)
		return store, nil
	case config.BackendMemory:
		slog.Debug("Storage initialized", "backend", cfg.Backend)
		return memory.New(), nil
	default:
		store, err := snapshot.New(cfg.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("initialize snapshot backend: %w", err)
		}
		slog.Debug("Storage initialized", "backend", cfg.Backend, "path", cfg.SnapshotPath)
		return store, nil
	}
}
