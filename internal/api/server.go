package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vc3-project/vc3-info-service/internal/version"
	"github.com/vc3-project/vc3-info-service/pkg/infostore"
	"github.com/vc3-project/vc3-info-service/pkg/pairing"
)

// Server is the HTTP API server. It is a thin façade: every route
// translates a transport verb into one store or pairing operation.
type Server struct {
	store   *infostore.Store
	pairing *pairing.Service
	logger  *slog.Logger
}

// ServerConfig holds configuration options for the API server.
type ServerConfig struct {
	// Logger receives request and error logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewServer creates a new API server with default configuration.
func NewServer(store *infostore.Store, pairingSvc *pairing.Service) *Server {
	return NewServerWithConfig(store, pairingSvc, ServerConfig{})
}

// NewServerWithConfig creates a new API server with the given configuration.
func NewServerWithConfig(store *infostore.Store, pairingSvc *pairing.Service, cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:   store,
		pairing: pairingSvc,
		logger:  logger,
	}
}

// RegisterRoutes registers all API routes.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Document routes
	mux.HandleFunc("GET /api/v1/documents/{key}", s.handleReadDocument)
	mux.HandleFunc("POST /api/v1/documents/{key}", s.handleReplaceDocument)
	mux.HandleFunc("PUT /api/v1/documents/{key}", s.handleMergeDocument)
	mux.HandleFunc("DELETE /api/v1/documents/{key}", s.handleDeleteDocument)

	// Entity routes
	mux.HandleFunc("GET /api/v1/documents/{key}/entities/{name}", s.handleGetEntity)
	mux.HandleFunc("POST /api/v1/documents/{key}/entities/{name}", s.handleCreateEntity)
	mux.HandleFunc("PUT /api/v1/documents/{key}/entities/{name}", s.handleUpdateEntity)
	mux.HandleFunc("DELETE /api/v1/documents/{key}/entities/{name}", s.handleDeleteEntity)

	// Pairing routes
	mux.HandleFunc("POST /api/v1/pairing/{key}", s.handleCreatePairing)
	mux.HandleFunc("GET /api/v1/pairing/{key}/{code}", s.handleResolvePairing)

	// Health routes
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
}

// handleHealth is the liveness probe endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": version.Version,
	})
}

// handleReady is the readiness probe endpoint. The store has no
// connection state of its own; readiness is a backend read probe.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.ReadDocument("health"); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", message)
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps a store/pairing error onto its HTTP status.
// Non-store errors are reported as internal failures without leaking
// backend details to the client.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var se *infostore.StoreError
	if errors.As(err, &se) {
		s.writeError(w, r, se.HTTPStatus(), se.Message)
		return
	}
	s.logger.Error("internal error", "method", r.Method, "path", r.URL.Path, "error", err)
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
