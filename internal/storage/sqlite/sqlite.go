// Package sqlite provides a relational implementation of storage.Store.
//
// The schema normalizes groups, members and log entries into their own
// tables; log entries keep their full metadata as a JSON payload since
// nothing ever queries inside one. Save replaces the whole ledger in a
// single transaction, which is exactly the wholesale load/save contract
// the core works with.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/grouptab/grouptab/internal/ledger"
	"github.com/grouptab/grouptab/internal/models"
	"github.com/grouptab/grouptab/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on a SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath, creating parent
// directories and running migrations.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the complete ledger state.
func (s *Store) Load(ctx context.Context) (*ledger.State, error) {
	state := ledger.NewState()

	var version string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'version'").Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		// Nothing saved yet.
		return state, nil
	case err != nil:
		return nil, fmt.Errorf("read version: %w", err)
	case version != ledger.CurrentVersion:
		return nil, fmt.Errorf("database version %q is not supported (want %q)", version, ledger.CurrentVersion)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM groups ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("read groups: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		g := &ledger.Group{}
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		state.Groups = append(state.Groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}

	for _, g := range state.Groups {
		if err := s.loadMembers(ctx, g); err != nil {
			return nil, err
		}
		if err := s.loadLog(ctx, g); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func (s *Store) loadMembers(ctx context.Context, g *ledger.Group) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, balance FROM members WHERE group_id = ? ORDER BY position", g.ID)
	if err != nil {
		return fmt.Errorf("read members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		m := &models.Member{}
		if err := rows.Scan(&m.Name, &m.Balance); err != nil {
			return fmt.Errorf("scan member: %w", err)
		}
		g.Members = append(g.Members, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate members: %w", err)
	}
	return nil
}

func (s *Store) loadLog(ctx context.Context, g *ledger.Group) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT entry FROM log_entries WHERE group_id = ? ORDER BY position", g.ID)
	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("scan log entry: %w", err)
		}
		entry := &ledger.LogEntry{}
		if err := json.Unmarshal(raw, entry); err != nil {
			return fmt.Errorf("decode log entry: %w", err)
		}
		g.Log = append(g.Log, entry)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate log: %w", err)
	}
	return nil
}

// Save replaces the stored ledger with state in one transaction.
func (s *Store) Save(ctx context.Context, state *ledger.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM groups"); err != nil {
		return fmt.Errorf("clear groups: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO meta (key, value) VALUES ('version', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		state.Version,
	); err != nil {
		return fmt.Errorf("write version: %w", err)
	}

	for gi, g := range state.Groups {
		if g.ID == "" {
			g.ID = uuid.New().String()
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO groups (id, name, position, created_at) VALUES (?, ?, ?, ?)",
			g.ID, g.Name, gi, g.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert group %q: %w", g.Name, err)
		}
		for mi, m := range g.Members {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO members (group_id, name, balance, position) VALUES (?, ?, ?, ?)",
				g.ID, m.Name, m.Balance, mi,
			); err != nil {
				return fmt.Errorf("insert member %q: %w", m.Name, err)
			}
		}
		for ei, e := range g.Log {
			raw, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("encode log entry: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO log_entries (group_id, position, entry) VALUES (?, ?, ?)",
				g.ID, ei, raw,
			); err != nil {
				return fmt.Errorf("insert log entry: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
