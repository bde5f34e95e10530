package storage

import (
	"database/sql"
	"fmt"
)

// SQLiteStore persists records in the kv_store table. Used by the local
// stdio mode so session and game progress survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite wraps an open database. The kv_store table is created by
// the db package migrations.
func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load returns the record for key, if any.
func (s *SQLiteStore) Load(key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRow("SELECT value FROM kv_store WHERE key = ?", key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return data, true, nil
}

// Save upserts the record under key.
func (s *SQLiteStore) Save(key string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, data)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Delete removes the record for key.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv_store WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
