package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLite is a Backend storing each document as a JSON blob in a
// single-table SQLite database.
type SQLite struct {
	rmw sync.Mutex
	db  *sql.DB
}

// OpenSQLite creates or opens a SQLite database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS documents (
		key TEXT PRIMARY KEY,
		doc TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// GetDocument returns the document at key, or an empty document for
// unknown keys.
func (s *SQLite) GetDocument(key string) (Document, error) {
	var raw string
	err := s.db.QueryRow(`SELECT doc FROM documents WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %q: %w", key, err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %q: %w", key, err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// StoreDocument overwrites the document at key.
func (s *SQLite) StoreDocument(key string, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %q: %w", key, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO documents (key, doc) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET doc = excluded.doc`,
		key, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to store document %q: %w", key, err)
	}
	return nil
}

// Lock acquires the store-wide read-modify-write lock.
func (s *SQLite) Lock() { s.rmw.Lock() }

// Unlock releases the store-wide read-modify-write lock.
func (s *SQLite) Unlock() { s.rmw.Unlock() }

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
