package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// KV is a SQLite-backed string key-value store. It is the persistence
// backend for the trail; all access goes through Get and Set.
type KV struct {
	conn *sql.DB
	path string
}

// OpenKV opens (or creates) the doctrail database in the given data
// directory.
func OpenKV(dataDir string) (*KV, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "doctrail.db")

	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	kv := &KV{conn: conn, path: dbPath}

	if err := kv.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return kv, nil
}

// Close closes the database connection.
func (kv *KV) Close() error {
	if kv.conn != nil {
		return kv.conn.Close()
	}
	return nil
}

// Get returns the value stored under key. A missing key is an error; the
// trail store treats any error as "no data".
func (kv *KV) Get(key string) (string, error) {
	var value string
	err := kv.conn.QueryRow(`SELECT v FROM kv WHERE k = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (kv *KV) Set(key, value string) error {
	_, err := kv.conn.Exec(
		`INSERT INTO kv (k, v) VALUES (?, ?)
		 ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// migrate creates the schema if it doesn't exist.
func (kv *KV) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL
	);
	`
	_, err := kv.conn.Exec(schema)
	return err
}

// MemKV is a process-local fallback backend, used when the database cannot
// be opened. Contents vanish with the session.
type MemKV struct {
	data map[string]string
}

// NewMemKV creates an empty in-memory backend.
func NewMemKV() *MemKV {
	return &MemKV{data: map[string]string{}}
}

// Get returns the value stored under key, or an error for a missing key.
func (m *MemKV) Get(key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", fmt.Errorf("no value for %q", key)
	}
	return v, nil
}

// Set stores value under key.
func (m *MemKV) Set(key, value string) error {
	m.data[key] = value
	return nil
}
