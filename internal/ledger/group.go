// Package ledger owns the mutable expense-sharing state: groups, their
// member balances and the append-only log of applied changes. All
// mutations go through Apply so that a change either lands on every
// member it names or not at all, and every logged entry can be undone
// by applying its reversal.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/grouptab/grouptab/internal/calculator"
	"github.com/grouptab/grouptab/internal/models"
)

// Group is a named set of members with running balances and a log of
// everything applied to them. The members slice keeps its creation
// order; the allocator relies on that order being stable.
type Group struct {
	ID        string           `json:"id" yaml:"id"`
	Name      string           `json:"name" yaml:"name"`
	Members   []*models.Member `json:"members" yaml:"members"`
	Log       []*LogEntry      `json:"log" yaml:"log"`
	CreatedAt int64            `json:"created_at" yaml:"created_at"`
}

// NewGroup creates a group with all balances at zero. The group name
// and every member name must pass the name format check; the member
// list must not be empty or contain duplicates.
func NewGroup(name string, members []string) (*Group, error) {
	if !models.ValidName(name) {
		return nil, fmt.Errorf("%w: group %q", models.ErrInvalidName, name)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: a group needs at least one member", models.ErrInvalidSemantic)
	}
	g := &Group{
		Name:      name,
		Members:   make([]*models.Member, 0, len(members)),
		CreatedAt: time.Now().Unix(),
	}
	if err := g.Add(members); err != nil {
		return nil, err
	}
	return g, nil
}

// Member returns the named member, or nil if absent.
func (g *Group) Member(name string) *models.Member {
	for _, m := range g.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// MemberNames returns the member names in their stable group order.
func (g *Group) MemberNames() []string {
	names := make([]string, len(g.Members))
	for i, m := range g.Members {
		names[i] = m.Name
	}
	return names
}

// Balances returns a snapshot copy of the members and their balances.
func (g *Group) Balances() []models.Member {
	out := make([]models.Member, len(g.Members))
	for i, m := range g.Members {
		out[i] = *m
	}
	return out
}

// Add registers new zero-balance members. Duplicates and names failing
// the format check are rejected together as one ErrInvalidName; valid
// names in the same call are still added.
func (g *Group) Add(names []string) error {
	var rejected []string
	for _, name := range names {
		switch {
		case g.Member(name) != nil:
			rejected = append(rejected, name+" (duplicate)")
		case !models.ValidName(name):
			rejected = append(rejected, name)
		default:
			g.Members = append(g.Members, &models.Member{Name: name})
		}
	}
	if len(rejected) > 0 {
		return fmt.Errorf("%w: %s", models.ErrInvalidName, strings.Join(rejected, ", "))
	}
	return nil
}

// Remove drops members from the group. A member with a nonzero balance
// is only dropped when force is set, since removing them would break
// the zero-sum invariant of the remaining balances.
func (g *Group) Remove(names []string, force bool) error {
	var rejected []string
	for _, name := range names {
		m := g.Member(name)
		if m == nil || (m.Balance != 0 && !force) {
			rejected = append(rejected, name)
			continue
		}
		for i, mm := range g.Members {
			if mm.Name == name {
				g.Members = append(g.Members[:i], g.Members[i+1:]...)
				break
			}
		}
	}
	if len(rejected) > 0 {
		return fmt.Errorf("%w: cannot remove %s: unknown, or carrying a balance (use force)",
			models.ErrMemberNotFound, strings.Join(rejected, ", "))
	}
	return nil
}

// Apply adds every delta in change to the matching member balance.
// A delta naming an unknown member fails the whole change before any
// balance moves.
func (g *Group) Apply(change models.Change) error {
	for name := range change {
		if g.Member(name) == nil {
			return fmt.Errorf("%w: %q", models.ErrMemberNotFound, name)
		}
	}
	for name, delta := range change {
		g.Member(name).Balance += delta
	}
	return nil
}

// Split allocates an expense across the group, applies the resulting
// change and logs it. See calculator.SplitIntoTransaction for the
// directive semantics.
func (g *Group) Split(total models.Money, from, to []string, label string, balanceRest bool) (models.Change, error) {
	change, givers, receivers, err := calculator.SplitIntoTransaction(total, g.MemberNames(), from, to, balanceRest)
	if err != nil {
		return nil, err
	}
	if err := g.Apply(change); err != nil {
		return nil, err
	}
	g.Log = append(g.Log, &LogEntry{
		Kind:        LogSplit,
		Label:       label,
		Amount:      total,
		From:        givers,
		To:          receivers,
		BalanceRest: balanceRest,
		Change:      change,
		CreatedAt:   time.Now().Unix(),
	})
	return change, nil
}

// Pay records a direct two-party payment: from hands amount to to, so
// from's balance improves and to's drops. The same sign convention as
// settlements: whoever hands over money gets credited.
func (g *Group) Pay(amount models.Money, from, to string) error {
	if from == to {
		return fmt.Errorf("%w: %q cannot pay themselves", models.ErrInvalidSemantic, from)
	}
	change := models.Change{from: amount, to: -amount}
	if err := g.Apply(change); err != nil {
		return err
	}
	g.Log = append(g.Log, &LogEntry{
		Kind:      LogPay,
		Amount:    amount,
		Payer:     from,
		Payee:     to,
		Change:    change,
		CreatedAt: time.Now().Unix(),
	})
	return nil
}

// Settle applies a planned settlement as one logged transaction. The
// per-pair payments are folded into a single change, accumulating so a
// member appearing in several payments nets correctly.
func (g *Group) Settle(plan []models.Settlement) error {
	change := make(models.Change, len(g.Members))
	var moved models.Money
	for _, t := range plan {
		change[t.From] += t.Amount
		change[t.To] -= t.Amount
		moved += t.Amount
	}
	if err := g.Apply(change); err != nil {
		return err
	}
	g.Log = append(g.Log, &LogEntry{
		Kind:      LogSettle,
		Amount:    moved,
		Change:    change,
		CreatedAt: time.Now().Unix(),
	})
	return nil
}

// EntryAt returns the log entry at index; a negative index means the
// most recent entry.
func (g *Group) EntryAt(index int) (*LogEntry, error) {
	if len(g.Log) == 0 {
		return nil, fmt.Errorf("%w: log is empty", models.ErrLogEntryNotFound)
	}
	if index < 0 {
		index = len(g.Log) - 1
	}
	if index >= len(g.Log) {
		return nil, fmt.Errorf("%w: index %d, log has %d entries", models.ErrLogEntryNotFound, index, len(g.Log))
	}
	return g.Log[index], nil
}

// Undo reverses the log entry at index (negative index: the most
// recent one), restores every balance to its value before that entry
// and removes the entry from the log. The undone entry is returned.
func (g *Group) Undo(index int) (*LogEntry, error) {
	entry, err := g.EntryAt(index)
	if err != nil {
		return nil, err
	}
	if err := g.Apply(entry.Reversed()); err != nil {
		return nil, err
	}
	if index < 0 {
		index = len(g.Log) - 1
	}
	g.Log = append(g.Log[:index], g.Log[index+1:]...)
	return entry, nil
}
