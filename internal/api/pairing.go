package api

import (
	"net/http"
)

// handleCreatePairing handles POST /api/v1/pairing/{key}
// It registers a new pairing request and returns the generated name
// and one-time code. The caller polls the resolve endpoint with the
// code until a credential has been attached.
func (s *Server) handleCreatePairing(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	req, err := s.pairing.CreateRequest(key)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, req)
}

// handleResolvePairing handles GET /api/v1/pairing/{key}/{code}
// A successful resolve consumes the pairing entry, so the credential
// is handed out at most once per code.
func (s *Server) handleResolvePairing(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	code := r.PathValue("code")

	entry, err := s.pairing.Resolve(key, code)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}
