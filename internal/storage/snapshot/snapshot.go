// Package snapshot persists the ledger as a single brotli-compressed
// YAML file. The whole state is rewritten on every save, which keeps
// the format trivial to inspect (brotli -d) and impossible to corrupt
// halfway through a command.
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/andybalholm/brotli"
	"gopkg.in/yaml.v3"

	"github.com/grouptab/grouptab/internal/ledger"
	"github.com/grouptab/grouptab/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// compressionLevel trades a little CPU for small files; snapshots are
// tiny either way.
const compressionLevel = 6

// Store reads and writes ledger snapshots at a fixed path.
type Store struct {
	path string
}

// New creates a snapshot store at path, creating parent directories as
// needed. The file itself is only created on the first Save.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot directory: %w", err)
		}
	}
	return &Store{path: path}, nil
}

func (s *Store) Load(ctx context.Context) (*ledger.State, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ledger.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(raw)))
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	state := ledger.NewState()
	if err := yaml.Unmarshal(decoded, state); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if state.Version != ledger.CurrentVersion {
		return nil, fmt.Errorf("snapshot version %q is not supported (want %q)",
			state.Version, ledger.CurrentVersion)
	}
	return state, nil
}

func (s *Store) Save(ctx context.Context, state *ledger.State) error {
	encoded, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, compressionLevel)
	if _, err := w.Write(encoded); err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	// Write to a sibling temp file and rename so a crash mid-save
	// leaves the previous snapshot intact.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
