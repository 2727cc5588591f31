package ledger

import (
	"fmt"

	"github.com/grouptab/grouptab/internal/models"
)

// CurrentVersion tags persisted snapshots so an incompatible layout
// can be detected at load time.
const CurrentVersion = "1"

// State is the whole ledger: every group, loaded wholesale at startup
// and persisted wholesale at shutdown. There is exactly one owner and
// no concurrent access; a multi-user deployment needs its own locking
// around the load/save cycle.
type State struct {
	Version string   `json:"version" yaml:"version"`
	Groups  []*Group `json:"groups" yaml:"groups"`
}

// NewState returns an empty ledger at the current snapshot version.
func NewState() *State {
	return &State{Version: CurrentVersion}
}

// Group finds a group by name. The empty name selects the first group,
// so single-group ledgers work without naming it every time.
func (s *State) Group(name string) (*Group, error) {
	if name == "" {
		if len(s.Groups) == 0 {
			return nil, fmt.Errorf("%w: ledger has no groups", models.ErrGroupNotFound)
		}
		return s.Groups[0], nil
	}
	for _, g := range s.Groups {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", models.ErrGroupNotFound, name)
}

// AddGroup appends a group, rejecting duplicate names.
func (s *State) AddGroup(g *Group) error {
	for _, existing := range s.Groups {
		if existing.Name == g.Name {
			return fmt.Errorf("%w: group %q already exists", models.ErrInvalidName, g.Name)
		}
	}
	s.Groups = append(s.Groups, g)
	return nil
}

// DeleteGroup removes a group and everything it owns.
func (s *State) DeleteGroup(name string) error {
	for i, g := range s.Groups {
		if g.Name == name {
			s.Groups = append(s.Groups[:i], s.Groups[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", models.ErrGroupNotFound, name)
}

// Clone deep-copies the state, detaching members, logs and changes.
func (s *State) Clone() *State {
	out := &State{Version: s.Version, Groups: make([]*Group, len(s.Groups))}
	for i, g := range s.Groups {
		cg := &Group{ID: g.ID, Name: g.Name, CreatedAt: g.CreatedAt}
		cg.Members = make([]*models.Member, len(g.Members))
		for j, m := range g.Members {
			mm := *m
			cg.Members[j] = &mm
		}
		cg.Log = make([]*LogEntry, len(g.Log))
		for j, e := range g.Log {
			ce := *e
			ce.From = append([]models.Target(nil), e.From...)
			ce.To = append([]models.Target(nil), e.To...)
			ce.Change = make(models.Change, len(e.Change))
			for name, delta := range e.Change {
				ce.Change[name] = delta
			}
			cg.Log[j] = &ce
		}
		out.Groups[i] = cg
	}
	return out
}
