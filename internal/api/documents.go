package api

import (
	"encoding/json"
	"net/http"

	"github.com/vc3-project/vc3-info-service/pkg/persist"
)

// decodeDocument reads a JSON object payload into a Document. The
// top-level value must be an object; anything else is a client error.
func decodeDocument(r *http.Request) (persist.Document, error) {
	var doc persist.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = persist.Document{}
	}
	return doc, nil
}

// handleReadDocument handles GET /api/v1/documents/{key}
func (s *Server) handleReadDocument(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	doc, err := s.store.ReadDocument(key)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

// handleReplaceDocument handles POST /api/v1/documents/{key}
// It unconditionally overwrites the document at key.
func (s *Server) handleReplaceDocument(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	doc, err := decodeDocument(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if err := s.store.ReplaceDocument(key, doc); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "stored", "key": key})
}

// handleMergeDocument handles PUT /api/v1/documents/{key}
// It recursively merges the payload into the stored document.
func (s *Server) handleMergeDocument(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	fragment, err := decodeDocument(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if err := s.store.MergeDocument(key, fragment); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "merged", "key": key})
}

// handleDeleteDocument handles DELETE /api/v1/documents/{key}
// It replaces the stored document with an empty one.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if err := s.store.DeleteDocument(key); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "key": key})
}
