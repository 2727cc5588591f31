// Package memory provides an in-memory Store for tests and ephemeral
// runs where nothing should outlive the process.
package memory

import (
	"context"

	"github.com/grouptab/grouptab/internal/ledger"
	"github.com/grouptab/grouptab/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps the last saved state in memory. Load and Save clone so
// the caller's mutations never leak into the "persisted" copy, same as
// a real backend.
type Store struct {
	state *ledger.State
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{}
}

func (s *Store) Load(ctx context.Context) (*ledger.State, error) {
	if s.state == nil {
		return ledger.NewState(), nil
	}
	return s.state.Clone(), nil
}

func (s *Store) Save(ctx context.Context, state *ledger.State) error {
	s.state = state.Clone()
	return nil
}

func (s *Store) Close() error {
	return nil
}
