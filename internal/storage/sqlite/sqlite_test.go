package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/grouptab/grouptab/internal/ledger"
	"github.com/grouptab/grouptab/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data", "ledger.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestLoadEmptyDatabase(t *testing.T) {
	s := newTestStore(t)
	state, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state.Version != ledger.CurrentVersion {
		t.Errorf("version = %q, want %q", state.Version, ledger.CurrentVersion)
	}
	if len(state.Groups) != 0 {
		t.Errorf("fresh state has %d groups", len(state.Groups))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	state := ledger.NewState()
	trip, err := ledger.NewGroup("trip", []string{"Alice", "Bob", "Charly"})
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	if err := state.AddGroup(trip); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	flat, err := ledger.NewGroup("flat", []string{"anna", "peter"})
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	if err := state.AddGroup(flat); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}

	if _, err := trip.Split(100, []string{"Alice"}, nil, "lunch", false); err != nil {
		t.Fatalf("Split: %v", err)
	}
	if err := trip.Pay(10, "Bob", "Alice"); err != nil {
		t.Fatalf("Pay: %v", err)
	}

	if err := s.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if trip.ID == "" || flat.ID == "" {
		t.Fatal("Save did not assign group IDs")
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Groups) != 2 {
		t.Fatalf("loaded %d groups, want 2", len(loaded.Groups))
	}
	// Save order must survive the round trip.
	if loaded.Groups[0].Name != "trip" || loaded.Groups[1].Name != "flat" {
		t.Errorf("group order = %q, %q", loaded.Groups[0].Name, loaded.Groups[1].Name)
	}

	lg := loaded.Groups[0]
	if lg.ID != trip.ID {
		t.Errorf("group ID = %q, want %q", lg.ID, trip.ID)
	}
	if !reflect.DeepEqual(lg.MemberNames(), []string{"Alice", "Bob", "Charly"}) {
		t.Errorf("member order = %v", lg.MemberNames())
	}
	if !reflect.DeepEqual(lg.Balances(), trip.Balances()) {
		t.Errorf("balances = %v, want %v", lg.Balances(), trip.Balances())
	}
	if len(lg.Log) != 2 {
		t.Fatalf("loaded %d log entries, want 2", len(lg.Log))
	}
	if lg.Log[0].Kind != ledger.LogSplit || lg.Log[0].Label != "lunch" {
		t.Errorf("first entry = %+v", lg.Log[0])
	}
	if !reflect.DeepEqual(lg.Log[1].Change, models.Change{"Bob": 10, "Alice": -10}) {
		t.Errorf("payment change = %v", lg.Log[1].Change)
	}
}

func TestSaveReplacesPreviousState(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	state := ledger.NewState()
	g, err := ledger.NewGroup("trip", []string{"anna", "peter"})
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	if err := state.AddGroup(g); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	if err := s.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Remove a member and a whole group; the stored rows must follow.
	if err := g.Remove([]string{"peter"}, false); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Save(ctx, state); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := loaded.Groups[0].MemberNames(); !reflect.DeepEqual(got, []string{"anna"}) {
		t.Errorf("members = %v, want [anna]", got)
	}

	if err := state.DeleteGroup("trip"); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}
	if err := s.Save(ctx, state); err != nil {
		t.Fatalf("third Save: %v", err)
	}
	loaded, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Groups) != 0 {
		t.Errorf("loaded %d groups after delete, want 0", len(loaded.Groups))
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "ledger.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	state := ledger.NewState()
	g, err := ledger.NewGroup("trip", []string{"anna", "peter"})
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	if err := state.AddGroup(g); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	if err := s.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	loaded, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if len(loaded.Groups) != 1 || loaded.Groups[0].Name != "trip" {
		t.Errorf("loaded groups = %+v", loaded.Groups)
	}
}
