package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	SchemaVersion = 1
)

// Well-known entry keys. Each holds one self-contained serialized collection;
// there is no transactionality across keys.
const (
	KeyMemories      = "memories"
	KeyRelationships = "relationships"
	KeyContacts      = "contacts"
	KeyQueryCache    = "query-cache"
	KeySettings      = "settings"
)

// DB is the key-value persistence facility: load(key) and save(key, blob)
// over a single SQLite table. Callers treat each value as an opaque
// serialized collection.
type DB struct {
	conn *sql.DB
}

// NewDB opens (or creates) the database at path and applies migrations.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=10000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	database := &DB{conn: db}

	if err := database.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return database, nil
}

// migrate applies database migrations
func (db *DB) migrate() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var version int
	if err := tx.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}

	for version < SchemaVersion {
		version++
		switch version {
		case 1:
			if err := db.applySchemaV1(tx); err != nil {
				return fmt.Errorf("failed to apply schema v%d: %w", version, err)
			}
		default:
			return fmt.Errorf("unknown schema version: %d", version)
		}
	}

	return tx.Commit()
}

// applySchemaV1 applies the initial schema
func (db *DB) applySchemaV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion))
	return err
}

// Load returns the serialized value stored under key, or ok=false when the
// key has never been saved.
func (db *DB) Load(key string) (value string, ok bool, err error) {
	row := db.conn.QueryRow("SELECT value FROM entries WHERE key = ?", key)
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Save stores the serialized value under key, replacing any previous value.
func (db *DB) Save(key, value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	return err
}

// LoadJSON unmarshals the entry stored under key into dest. A missing entry
// returns ok=false with dest untouched. A corrupt blob is reported as an
// error so the caller can degrade to an empty collection.
func (db *DB) LoadJSON(key string, dest interface{}) (bool, error) {
	value, ok, err := db.Load(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(value), dest); err != nil {
		return false, fmt.Errorf("corrupt entry %q: %w", key, err)
	}
	return true, nil
}

// SaveJSON marshals v and stores it under key.
func (db *DB) SaveJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize entry %q: %w", key, err)
	}
	return db.Save(key, string(data))
}

// Ping verifies the underlying connection is usable.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// GetConnection returns the underlying database connection
func (db *DB) GetConnection() *sql.DB {
	return db.conn
}
