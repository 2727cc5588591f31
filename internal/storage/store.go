// Package storage provides abstractions for persisting the ledger.
package storage

import (
	"context"

	"github.com/grouptab/grouptab/internal/ledger"
)

// Store moves whole ledger snapshots in and out of a backend. The core
// never persists incrementally: a command loads the state once, mutates
// it in memory and saves it once, so a Store only has to be able to
// round-trip the complete state. This keeps the engine agnostic of
// whether the backend is a relational schema, a compressed file or
// nothing at all.
type Store interface {
	// Load reads the persisted state. A backend with nothing stored
	// yet returns a fresh empty state, not an error.
	Load(ctx context.Context) (*ledger.State, error)

	// Save persists the state wholesale, replacing what was there.
	Save(ctx context.Context, state *ledger.State) error

	// Close releases any resources held by the store.
	Close() error
}
