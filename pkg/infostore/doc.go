// Package infostore implements the shared document store: named JSON
// documents, each holding uniquely-named entities, mutated under the
// backend's store-wide lock.
//
// The store manages two granularities:
//
//   - Documents: whole-document replace, recursive merge, delete, read
//   - Entities: create (fails on duplicates), shallow attribute-level
//     update, read, delete
//
// All mutating operations serialize against a single global lock, so
// lost-update races cannot occur. Whole-document and entity reads are
// lock-free point-in-time snapshots.
//
// # Usage
//
// Open a backend, wrap it in a Store, and operate:
//
//	backend, err := persist.OpenSQLite("info.db")
//	if err != nil {
//	    return err
//	}
//	defer backend.Close()
//	store := infostore.New(backend)
package infostore
