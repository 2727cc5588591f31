package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/grouptab/grouptab/internal/ledger"
	"github.com/grouptab/grouptab/internal/models"
)

type groupView struct {
	Name    string          `json:"name"`
	Members []models.Member `json:"members"`
	LogSize int             `json:"log_size"`
}

func viewOf(g *ledger.Group) groupView {
	return groupView{Name: g.Name, Members: g.Balances(), LogSize: len(g.Log)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the core's error kinds onto HTTP statuses. Not-found
// kinds become 404, everything caused by bad input becomes 400.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrGroupNotFound),
		errors.Is(err, models.ErrMemberNotFound),
		errors.Is(err, models.ErrLogEntryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTargetFormat),
		errors.Is(err, models.ErrInvalidNumberFormat),
		errors.Is(err, models.ErrInvalidSemantic),
		errors.Is(err, models.ErrInvalidName):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	return err
}

// persist saves the whole ledger after a successful mutation. A failed
// save is reported to the client; the in-memory state keeps the change
// and the next successful save will carry it.
func (s *Server) persist(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := s.svc.Save(r.Context()); err != nil {
		slog.Error("Failed to persist ledger", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, status, v)
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := s.svc.Groups()
	views := make([]groupView, len(groups))
	for i, g := range groups {
		views[i] = viewOf(g)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		Name    string   `json:"name"`
		Members []string `json:"members"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	g, err := s.svc.CreateGroup(req.Name, req.Members)
	if err != nil {
		countOperation("create_group", err)
		writeError(w, err)
		return
	}
	countOperation("create_group", nil)
	s.persist(w, r, http.StatusCreated, viewOf(g))
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.svc.Group(r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(g))
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.svc.DeleteGroup(r.PathValue("name")); err != nil {
		countOperation("delete_group", err)
		writeError(w, err)
		return
	}
	countOperation("delete_group", nil)
	s.persist(w, r, http.StatusOK, map[string]string{"deleted": r.PathValue("name")})
}

func (s *Server) handleAddMembers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		Members []string `json:"members"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	name := r.PathValue("name")
	if err := s.svc.AddMembers(name, req.Members); err != nil {
		countOperation("add_members", err)
		writeError(w, err)
		return
	}
	countOperation("add_members", nil)
	g, err := s.svc.Group(name)
	if err != nil {
		writeError(w, err)
		return
	}
	s.persist(w, r, http.StatusOK, viewOf(g))
}

func (s *Server) handleRemoveMembers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		Members []string `json:"members"`
		Force   bool     `json:"force"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	name := r.PathValue("name")
	if err := s.svc.RemoveMembers(name, req.Members, req.Force); err != nil {
		countOperation("remove_members", err)
		writeError(w, err)
		return
	}
	countOperation("remove_members", nil)
	g, err := s.svc.Group(name)
	if err != nil {
		writeError(w, err)
		return
	}
	s.persist(w, r, http.StatusOK, viewOf(g))
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		Amount      models.Money `json:"amount"` // minor units
		From        []string     `json:"from"`
		To          []string     `json:"to"`
		Label       string       `json:"label"`
		BalanceRest bool         `json:"balance_rest"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	change, err := s.svc.AllocateExpense(r.PathValue("name"), req.Amount, req.From, req.To, req.Label, req.BalanceRest)
	if err != nil {
		countOperation("split", err)
		writeError(w, err)
		return
	}
	countOperation("split", nil)
	s.persist(w, r, http.StatusOK, map[string]any{"change": change})
}

func (s *Server) handlePay(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		Amount models.Money `json:"amount"` // minor units
		From   string       `json:"from"`
		To     string       `json:"to"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := s.svc.RecordPayment(r.PathValue("name"), req.Amount, req.From, req.To); err != nil {
		countOperation("pay", err)
		writeError(w, err)
		return
	}
	countOperation("pay", nil)
	s.persist(w, r, http.StatusOK, map[string]string{"status": "recorded"})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		Index *int `json:"index"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	index := -1
	if req.Index != nil {
		index = *req.Index
	}
	entry, err := s.svc.Undo(r.PathValue("name"), index)
	if err != nil {
		countOperation("undo", err)
		writeError(w, err)
		return
	}
	countOperation("undo", nil)
	s.persist(w, r, http.StatusOK, map[string]any{
		"undone": entry.String(),
		"change": entry.Change,
	})
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.svc.Group(r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	type entryView struct {
		Index       int            `json:"index"`
		Kind        ledger.LogKind `json:"kind"`
		Description string         `json:"description"`
		Change      models.Change  `json:"change"`
		CreatedAt   int64          `json:"created_at"`
	}
	entries := make([]entryView, len(g.Log))
	for i, e := range g.Log {
		entries[i] = entryView{
			Index:       i,
			Kind:        e.Kind,
			Description: e.String(),
			Change:      e.Change,
			CreatedAt:   e.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handlePlanSettlement(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.svc.PlanSettlement(r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": plan})
}

// handleApplySettlement applies a settlement plan. The client normally
// fetches the plan, shows it for confirmation and posts it back; an
// empty body means "apply the current plan".
func (s *Server) handleApplySettlement(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		Transactions []models.Settlement `json:"transactions"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	name := r.PathValue("name")
	plan := req.Transactions
	if len(plan) == 0 {
		var err error
		plan, err = s.svc.PlanSettlement(name)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	if err := s.svc.ApplySettlement(name, plan); err != nil {
		countOperation("settle", err)
		writeError(w, err)
		return
	}
	countOperation("settle", nil)
	s.persist(w, r, http.StatusOK, map[string]any{"applied": plan})
}
