package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LEDGER_BACKEND", "")
	t.Setenv("LEDGER_SNAPSHOT_PATH", "")
	t.Setenv("LEDGER_SQLITE_PATH", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Backend != BackendSnapshot {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendSnapshot)
	}
	if cfg.SnapshotPath == "" || cfg.SQLiteDBPath == "" {
		t.Errorf("empty storage paths in defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LEDGER_BACKEND", BackendSQLite)
	t.Setenv("LEDGER_SQLITE_PATH", "/tmp/test.db")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendSQLite)
	}
	if cfg.SQLiteDBPath != "/tmp/test.db" {
		t.Errorf("SQLiteDBPath = %q", cfg.SQLiteDBPath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid snapshot config",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid memory config",
			mutate: func(c *Config) { c.Backend = BackendMemory },
		},
		{
			name:    "non-numeric port",
			mutate:  func(c *Config) { c.Port = "http" },
			wantErr: "invalid port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = "70000" },
			wantErr: "invalid port",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Backend = "postgres" },
			wantErr: "invalid backend",
		},
		{
			name:    "snapshot backend without a path",
			mutate:  func(c *Config) { c.SnapshotPath = "" },
			wantErr: "snapshot path",
		},
		{
			name: "sqlite backend without a path",
			mutate: func(c *Config) {
				c.Backend = BackendSQLite
				c.SQLiteDBPath = ""
			},
			wantErr: "sqlite path",
		},
		{
			name: "multiple problems reported together",
			mutate: func(c *Config) {
				c.Port = "bad"
				c.Backend = "postgres"
			},
			wantErr: ";",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:         "8080",
				Backend:      BackendSnapshot,
				SnapshotPath: "./data/ledger.yaml.br",
				SQLiteDBPath: "./data/ledger.db",
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
