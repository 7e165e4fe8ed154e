package infostore

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vc3-project/vc3-info-service/pkg/audit"
	"github.com/vc3-project/vc3-info-service/pkg/persist"
	"github.com/vc3-project/vc3-info-service/pkg/value"
)

// Store provides document- and entity-level operations over a
// persistence backend. All mutations run under the backend's
// store-wide lock; the lock is released on every exit path before an
// error surfaces to the caller.
type Store struct {
	backend persist.Backend
	logger  *slog.Logger
	emitter audit.EventEmitter
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for operation tracing. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuditEmitter sets the audit backend for mutation events.
// Emission failures are logged and never block the operation.
func WithAuditEmitter(e audit.EventEmitter) Option {
	return func(s *Store) {
		if e != nil {
			s.emitter = e
		}
	}
}

// New creates a Store over the given backend.
func New(backend persist.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  slog.Default(),
		emitter: audit.NopEmitter{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying persistence backend. The pairing
// service shares it so pairing resolution happens under the same
// store-wide lock.
func (s *Store) Backend() persist.Backend {
	return s.backend
}

// ----- Document operations -----

// ReplaceDocument unconditionally overwrites the document at key.
func (s *Store) ReplaceDocument(key string, doc persist.Document) error {
	s.backend.Lock()
	defer s.backend.Unlock()

	if err := s.backend.StoreDocument(key, doc); err != nil {
		return fmt.Errorf("replace document %q: %w", key, err)
	}
	s.logger.Debug("document replaced", "key", key, "entities", len(doc))
	s.emit(audit.NewEvent(audit.EventDocumentReplace, key, ""))
	return nil
}

// MergeDocument recursively merges fragment into the current document
// at key and persists the result. There is no precondition on prior
// existence: merging into an unknown key starts from an empty
// document. The merge completes fully in memory before anything is
// written; a failed merge leaves the stored document untouched.
func (s *Store) MergeDocument(key string, fragment persist.Document) error {
	s.backend.Lock()
	defer s.backend.Unlock()

	current, err := s.backend.GetDocument(key)
	if err != nil {
		return fmt.Errorf("merge document %q: %w", key, err)
	}

	src := &value.Value{Type: value.MapType, Fields: fragment}
	dest := &value.Value{Type: value.MapType, Fields: current}
	merged, err := value.Merge(src, dest)
	if err != nil {
		var te *value.TypeError
		if errors.As(err, &te) {
			return ErrMergeType(te.Error())
		}
		return fmt.Errorf("merge document %q: %w", key, err)
	}

	if err := s.backend.StoreDocument(key, merged.Fields); err != nil {
		return fmt.Errorf("merge document %q: %w", key, err)
	}
	s.logger.Debug("document merged", "key", key, "fragment_entities", len(fragment))
	s.emit(audit.NewEvent(audit.EventDocumentMerge, key, ""))
	return nil
}

// DeleteDocument replaces the document at key with an empty mapping.
func (s *Store) DeleteDocument(key string) error {
	s.backend.Lock()
	defer s.backend.Unlock()

	if err := s.backend.StoreDocument(key, persist.Document{}); err != nil {
		return fmt.Errorf("delete document %q: %w", key, err)
	}
	s.logger.Debug("document deleted", "key", key)
	s.emit(audit.NewEvent(audit.EventDocumentDelete, key, ""))
	return nil
}

// ReadDocument returns the current document at key. Reads are
// performed without the store-wide lock: the result is a
// point-in-time snapshot that may race a concurrent writer.
func (s *Store) ReadDocument(key string) (persist.Document, error) {
	doc, err := s.backend.GetDocument(key)
	if err != nil {
		return nil, fmt.Errorf("read document %q: %w", key, err)
	}
	return doc, nil
}

// ----- Entity operations -----

// CreateEntity inserts a new entity into the document at key. Fails
// with store.entity_exists if the name is already present; the
// document is not mutated in that case.
func (s *Store) CreateEntity(key, name string, entity *value.Value) error {
	s.backend.Lock()
	defer s.backend.Unlock()

	doc, err := s.backend.GetDocument(key)
	if err != nil {
		return fmt.Errorf("create entity %q in %q: %w", name, key, err)
	}
	if _, ok := doc[name]; ok {
		return ErrEntityExists(name)
	}

	doc[name] = entity
	if err := s.backend.StoreDocument(key, doc); err != nil {
		return fmt.Errorf("create entity %q in %q: %w", name, key, err)
	}
	s.logger.Debug("entity created", "key", key, "entity", name)
	s.emit(audit.NewEvent(audit.EventEntityCreate, key, name))
	return nil
}

// UpdateEntity overwrites attributes of an existing entity with the
// attributes present in fragment. This is a shallow, attribute-level
// replace, not a deep merge: each fragment attribute replaces the
// stored attribute wholesale. Fails with store.entity_missing if the
// entity does not exist.
func (s *Store) UpdateEntity(key, name string, fragment *value.Value) error {
	s.backend.Lock()
	defer s.backend.Unlock()

	doc, err := s.backend.GetDocument(key)
	if err != nil {
		return fmt.Errorf("update entity %q in %q: %w", name, key, err)
	}
	existing, ok := doc[name]
	if !ok {
		return ErrEntityMissing(name)
	}

	if existing != nil && existing.Type == value.MapType && fragment != nil && fragment.Type == value.MapType {
		for attr, v := range fragment.Fields {
			existing.Fields[attr] = v
		}
	} else {
		// Non-map entities have no attributes to replace; the update
		// degenerates to a whole-entity overwrite.
		doc[name] = fragment
	}

	if err := s.backend.StoreDocument(key, doc); err != nil {
		return fmt.Errorf("update entity %q in %q: %w", name, key, err)
	}
	s.logger.Debug("entity updated", "key", key, "entity", name)
	ev := audit.NewEvent(audit.EventEntityUpdate, key, name)
	if fragment != nil && fragment.Type == value.MapType {
		ev = ev.WithDetail("attributes", strconv.Itoa(len(fragment.Fields)))
	}
	s.emit(ev)
	return nil
}

// GetEntity returns a snapshot of the named entity. Fails with
// store.entity_missing if absent. Like ReadDocument, reads do not
// take the store-wide lock.
func (s *Store) GetEntity(key, name string) (*value.Value, error) {
	doc, err := s.backend.GetDocument(key)
	if err != nil {
		return nil, fmt.Errorf("get entity %q in %q: %w", name, key, err)
	}
	entity, ok := doc[name]
	if !ok {
		return nil, ErrEntityMissing(name)
	}
	return entity, nil
}

// DeleteEntity removes the named entity from the document at key.
// Fails with store.entity_missing if absent.
func (s *Store) DeleteEntity(key, name string) error {
	s.backend.Lock()
	defer s.backend.Unlock()

	doc, err := s.backend.GetDocument(key)
	if err != nil {
		return fmt.Errorf("delete entity %q in %q: %w", name, key, err)
	}
	if _, ok := doc[name]; !ok {
		return ErrEntityMissing(name)
	}

	delete(doc, name)
	if err := s.backend.StoreDocument(key, doc); err != nil {
		return fmt.Errorf("delete entity %q in %q: %w", name, key, err)
	}
	s.logger.Debug("entity deleted", "key", key, "entity", name)
	s.emit(audit.NewEvent(audit.EventEntityDelete, key, name))
	return nil
}

// emit forwards an audit event; failures are logged, never propagated.
func (s *Store) emit(ev audit.Event) {
	if err := s.emitter.Emit(ev); err != nil {
		s.logger.Error("audit emit failed", "event", string(ev.Type), "error", err)
	}
}
