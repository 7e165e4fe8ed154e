package persist

import "sync"

// Memory is an in-process Backend holding documents in a map. Useful
// for tests and for deployments that do not need durability.
type Memory struct {
	// rmw is the store-wide read-modify-write lock exposed through
	// Lock/Unlock. It is distinct from mu so that lock-free readers
	// still get a consistent snapshot while a writer holds rmw.
	rmw sync.Mutex

	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{docs: map[string]Document{}}
}

// GetDocument returns a deep copy of the document at key, or an empty
// document for unknown keys.
func (m *Memory) GetDocument(key string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[key]
	if !ok {
		return Document{}, nil
	}
	return doc.Clone(), nil
}

// StoreDocument overwrites the document at key.
func (m *Memory) StoreDocument(key string, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = doc.Clone()
	return nil
}

// Lock acquires the store-wide read-modify-write lock.
func (m *Memory) Lock() { m.rmw.Lock() }

// Unlock releases the store-wide read-modify-write lock.
func (m *Memory) Unlock() { m.rmw.Unlock() }

// Close releases the backend. A memory backend has nothing to release.
func (m *Memory) Close() error { return nil }
