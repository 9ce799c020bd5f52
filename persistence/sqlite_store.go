package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultSlot names the single save row
const DefaultSlot = "default"

// SQLiteStore keeps the record as one row per slot
type SQLiteStore struct {
	db   *sql.DB
	path string
	slot string
}

// OpenSQLite opens or creates the database at dbPath and prepares the saves table
func OpenSQLite(dbPath, slot string) (*SQLiteStore, error) {
	if slot == "" {
		slot = DefaultSlot
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between autosave and quit save
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		record TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath, slot: slot}, nil
}

// Location returns "path#slot"
func (s *SQLiteStore) Location() string {
	return s.path + "#" + s.slot
}

// Read returns the slot's record
func (s *SQLiteStore) Read(ctx context.Context) ([]byte, error) {
	var record string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM saves WHERE slot = ?`, s.slot).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save: %w", err)
	}
	return []byte(record), nil
}

// Write upserts the slot's record
func (s *SQLiteStore) Write(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO saves (slot, record, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, s.slot, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	return nil
}

// Close releases the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
