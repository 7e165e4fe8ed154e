package api

import (
	"encoding/json"
	"net/http"

	"github.com/vc3-project/vc3-info-service/pkg/value"
)

// decodeEntity reads a JSON object payload into a Value. Entities are
// attribute mappings, so the top-level value must be an object.
func decodeEntity(r *http.Request) (*value.Value, bool, error) {
	var v value.Value
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return nil, false, err
	}
	return &v, v.Type == value.MapType, nil
}

// handleGetEntity handles GET /api/v1/documents/{key}/entities/{name}
func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	name := r.PathValue("name")

	entity, err := s.store.GetEntity(key, name)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entity)
}

// handleCreateEntity handles POST /api/v1/documents/{key}/entities/{name}
// Creation fails if the name already exists; delete the old entity first.
func (s *Server) handleCreateEntity(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	name := r.PathValue("name")

	entity, isObject, err := decodeEntity(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if !isObject {
		s.writeError(w, r, http.StatusBadRequest, "entity payload must be a JSON object")
		return
	}

	if err := s.store.CreateEntity(key, name, entity); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"status": "created", "key": key, "entity": name})
}

// handleUpdateEntity handles PUT /api/v1/documents/{key}/entities/{name}
// Each payload attribute replaces the stored attribute wholesale.
func (s *Server) handleUpdateEntity(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	name := r.PathValue("name")

	fragment, isObject, err := decodeEntity(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if !isObject {
		s.writeError(w, r, http.StatusBadRequest, "entity payload must be a JSON object")
		return
	}

	if err := s.store.UpdateEntity(key, name, fragment); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated", "key": key, "entity": name})
}

// handleDeleteEntity handles DELETE /api/v1/documents/{key}/entities/{name}
func (s *Server) handleDeleteEntity(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	name := r.PathValue("name")

	if err := s.store.DeleteEntity(key, name); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "key": key, "entity": name})
}
