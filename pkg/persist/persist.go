package persist

import "github.com/vc3-project/vc3-info-service/pkg/value"

// Document is a named collection of entities, keyed by unique entity
// name. The mapping order is irrelevant.
type Document map[string]*value.Value

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for name, e := range d {
		out[name] = e.Clone()
	}
	return out
}

// Backend is the persistence port consumed by the store. A backend
// maps opaque keys to whole documents and exposes the store-wide
// mutual-exclusion primitive that callers hold across every
// read-modify-write sequence.
//
// GetDocument never fails for an unknown key; it returns an empty
// document. The returned document is a snapshot: mutating it does not
// affect stored state until StoreDocument is called.
type Backend interface {
	GetDocument(key string) (Document, error)
	StoreDocument(key string, doc Document) error

	// Lock and Unlock guard read-modify-write sequences. The lock is
	// global, not per-key: all mutations across all keys serialize
	// against one another. Acquisition blocks without a timeout.
	Lock()
	Unlock()

	Close() error
}
