// Package mapcache stores mapping results in a SQLite database so
// repeated backend runs over an unchanged declaration graph can skip
// the mapper. Results are grouped into snapshots; each run writes
// under a fresh snapshot id and readers pick the snapshot they trust.
package mapcache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound indicates the requested entry is not in the store.
var ErrNotFound = errors.New("mapcache: entry not found")

// Entry kinds. The key format is up to the producer; the CLI uses the
// declaration's qualified name.
const (
	KindDescriptor = "descriptor"
	KindSignature  = "signature"
	KindDispatch   = "dispatch"
)

// Store is a SQLite-backed cache of mapping results.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens (creating if needed) the store at path. Parent
// directories are created as well.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		created TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshots table: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		snapshot TEXT NOT NULL,
		kind TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (snapshot, kind, key)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating entries table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// NewSnapshot registers a new snapshot and returns its id.
func (s *Store) NewSnapshot(label string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO snapshots (id, label, created) VALUES (?, ?, ?)",
		id, label, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("registering snapshot: %w", err)
	}
	return id, nil
}

// LatestSnapshot returns the id of the most recently created snapshot,
// or ErrNotFound if the store is empty.
func (s *Store) LatestSnapshot() (string, error) {
	var id string
	err := s.db.QueryRow(
		"SELECT id FROM snapshots ORDER BY created DESC, id DESC LIMIT 1",
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying snapshot: %w", err)
	}
	return id, nil
}

// Put records one entry under the snapshot, replacing any previous
// value for the same kind and key.
func (s *Store) Put(snapshot, kind, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO entries (snapshot, kind, key, value) VALUES (?, ?, ?, ?)",
		snapshot, kind, key, value,
	)
	if err != nil {
		return fmt.Errorf("saving entry: %w", err)
	}
	return nil
}

// Get retrieves one entry, or ErrNotFound.
func (s *Store) Get(snapshot, kind, key string) (string, error) {
	var value string
	err := s.db.QueryRow(
		"SELECT value FROM entries WHERE snapshot = ? AND kind = ? AND key = ?",
		snapshot, kind, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying entry: %w", err)
	}
	return value, nil
}

// Keys lists the keys stored under a snapshot and kind, in key order.
func (s *Store) Keys(snapshot, kind string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT key FROM entries WHERE snapshot = ? AND kind = ? ORDER BY key",
		snapshot, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// DropSnapshot deletes a snapshot and all its entries.
func (s *Store) DropSnapshot(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM entries WHERE snapshot = ?", id); err != nil {
		return fmt.Errorf("deleting entries: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM snapshots WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}
