// ABOUTME: SQLite implementation of the Backend interface using modernc.org/sqlite
// ABOUTME: Stores one row per document key with automatic schema creation and a byte quota

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Backend using SQLite
type SQLiteStore struct {
	db         *sql.DB
	quotaBytes int
	logger     *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed. A quotaBytes of zero or less
// disables the quota check.
func NewSQLiteStore(path string, quotaBytes int) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// A single connection keeps :memory: databases alive across calls
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling WAL mode: %w", err)
		}
	}

	s := &SQLiteStore{
		db:         db,
		quotaBytes: quotaBytes,
		logger:     logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path, "quota_bytes", quotaBytes)
	return s, nil
}

// createSchema creates the documents table if it doesn't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			doc_key    TEXT PRIMARY KEY,
			payload    BLOB NOT NULL,
			size_bytes INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// Get retrieves the payload stored under key.
// Returns ErrNotFound if nothing is stored there.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT payload FROM documents WHERE doc_key = ?`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&payload)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}

	return payload, nil
}

// Put saves or replaces the payload stored under key.
// Uses INSERT OR REPLACE to handle both insert and update cases.
func (s *SQLiteStore) Put(ctx context.Context, key string, payload []byte) error {
	if s.quotaBytes > 0 && len(payload) > s.quotaBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrQuotaExceeded, len(payload), s.quotaBytes)
	}

	query := `
		INSERT OR REPLACE INTO documents (doc_key, payload, size_bytes, updated_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		key,
		payload,
		len(payload),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	s.logger.Debug("saved document", "key", key, "size", len(payload))
	return nil
}

// Delete removes the document stored under key
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE doc_key = ?`, key); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	s.logger.Debug("deleted document", "key", key)
	return nil
}
