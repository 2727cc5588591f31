// Package server exposes the ledger over a small JSON API. It is the
// concurrent shell around the single-owner core: one mutex serializes
// every request, and mutations persist the whole state before the
// response goes out.
package server

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grouptab/grouptab/internal/service"
)

// Server handles the JSON API for one loaded ledger.
type Server struct {
	mu  sync.Mutex
	svc *service.Splitter
}

// New creates a server around a loaded service.
func New(svc *service.Splitter) *Server {
	return &Server{svc: svc}
}

// Handler builds the route table, wrapped in logging and CORS
// middleware. Prometheus metrics are served on /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/groups", s.handleListGroups)
	mux.HandleFunc("POST /api/groups", s.handleCreateGroup)
	mux.HandleFunc("GET /api/groups/{name}", s.handleGetGroup)
	mux.HandleFunc("DELETE /api/groups/{name}", s.handleDeleteGroup)
	mux.HandleFunc("POST /api/groups/{name}/members", s.handleAddMembers)
	mux.HandleFunc("DELETE /api/groups/{name}/members", s.handleRemoveMembers)
	mux.HandleFunc("POST /api/groups/{name}/expenses", s.handleSplit)
	mux.HandleFunc("POST /api/groups/{name}/payments", s.handlePay)
	mux.HandleFunc("POST /api/groups/{name}/undo", s.handleUndo)
	mux.HandleFunc("GET /api/groups/{name}/log", s.handleLog)
	mux.HandleFunc("GET /api/groups/{name}/settlement", s.handlePlanSettlement)
	mux.HandleFunc("POST /api/groups/{name}/settlement", s.handleApplySettlement)

	mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(corsMiddleware(mux))
}
