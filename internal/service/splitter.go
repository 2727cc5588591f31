// Package service wires the calculation engine, the ledger and a
// storage backend into the operations the CLI and HTTP surfaces call.
// Every mutating operation validates fully before touching state, so a
// failed call leaves balances and the log exactly as they were.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/grouptab/grouptab/internal/calculator"
	"github.com/grouptab/grouptab/internal/ledger"
	"github.com/grouptab/grouptab/internal/models"
	"github.com/grouptab/grouptab/internal/storage"
)

// Splitter owns a loaded ledger state and the store it came from.
// It is single-owner and not safe for concurrent use; callers that
// multiplex requests (the HTTP server) serialize access themselves.
type Splitter struct {
	store storage.Store
	state *ledger.State
}

// New loads the ledger from store and returns a service around it.
func New(ctx context.Context, store storage.Store) (*Splitter, error) {
	state, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	slog.Debug("Ledger loaded", "groups", len(state.Groups))
	return &Splitter{store: store, state: state}, nil
}

// Save persists the current state wholesale.
func (s *Splitter) Save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.state); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// Groups returns all groups in their stable order.
func (s *Splitter) Groups() []*ledger.Group {
	return s.state.Groups
}

// Group resolves a group by name; the empty name selects the first group.
func (s *Splitter) Group(name string) (*ledger.Group, error) {
	return s.state.Group(name)
}

// CreateGroup creates a group with zero balances for every member.
func (s *Splitter) CreateGroup(name string, members []string) (*ledger.Group, error) {
	g, err := ledger.NewGroup(name, members)
	if err != nil {
		return nil, err
	}
	g.ID = uuid.New().String()
	if err := s.state.AddGroup(g); err != nil {
		return nil, err
	}
	slog.Info("Group created", "group", name, "members", len(members))
	return g, nil
}

// DeleteGroup removes a group and all its history. The surrounding CLI
// confirms with the user first; this call is unconditional.
func (s *Splitter) DeleteGroup(name string) error {
	if err := s.state.DeleteGroup(name); err != nil {
		return err
	}
	slog.Info("Group deleted", "group", name)
	return nil
}

// AddMembers adds zero-balance members to a group.
func (s *Splitter) AddMembers(group string, names []string) error {
	g, err := s.state.Group(group)
	if err != nil {
		return err
	}
	if err := g.Add(names); err != nil {
		return err
	}
	slog.Info("Members added", "group", g.Name, "members", names)
	return nil
}

// RemoveMembers removes members from a group; members carrying a
// balance are only removed when force is set.
func (s *Splitter) RemoveMembers(group string, names []string, force bool) error {
	g, err := s.state.Group(group)
	if err != nil {
		return err
	}
	if err := g.Remove(names, force); err != nil {
		return err
	}
	slog.Info("Members removed", "group", g.Name, "members", names, "force", force)
	return nil
}

// AllocateExpense distributes an expense of total across the group
// according to the from/to directives, applies the resulting deltas
// and logs the transaction. See calculator.SplitIntoTransaction.
func (s *Splitter) AllocateExpense(group string, total models.Money, from, to []string, label string, balanceRest bool) (models.Change, error) {
	g, err := s.state.Group(group)
	if err != nil {
		return nil, err
	}
	change, err := g.Split(total, from, to, label, balanceRest)
	if err != nil {
		return nil, err
	}
	slog.Info("Expense allocated",
		"group", g.Name,
		"label", label,
		"amount", total,
		"balance_rest", balanceRest,
	)
	return change, nil
}

// RecordPayment applies and logs a direct two-party payment.
func (s *Splitter) RecordPayment(group string, amount models.Money, from, to string) error {
	g, err := s.state.Group(group)
	if err != nil {
		return err
	}
	if err := g.Pay(amount, from, to); err != nil {
		return err
	}
	slog.Info("Payment recorded", "group", g.Name, "from", from, "to", to, "amount", amount)
	return nil
}

// Undo reverses a log entry (negative index: the most recent) and
// removes it from the log. The undone entry is returned so the caller
// can show what was reverted.
func (s *Splitter) Undo(group string, index int) (*ledger.LogEntry, error) {
	g, err := s.state.Group(group)
	if err != nil {
		return nil, err
	}
	entry, err := g.Undo(index)
	if err != nil {
		return nil, err
	}
	slog.Info("Entry undone", "group", g.Name, "entry", entry.String())
	return entry, nil
}

// PlanSettlement computes the recommended payments that would zero out
// the group's balances. It mutates nothing; pair it with
// ApplySettlement once the caller has confirmed.
func (s *Splitter) PlanSettlement(group string) ([]models.Settlement, error) {
	g, err := s.state.Group(group)
	if err != nil {
		return nil, err
	}
	return calculator.PlanSettlement(g.Balances()), nil
}

// ApplySettlement applies a confirmed settlement plan as one logged,
// undoable transaction.
func (s *Splitter) ApplySettlement(group string, plan []models.Settlement) error {
	g, err := s.state.Group(group)
	if err != nil {
		return err
	}
	if err := g.Settle(plan); err != nil {
		return err
	}
	slog.Info("Settlement applied", "group", g.Name, "payments", len(plan))
	return nil
}
