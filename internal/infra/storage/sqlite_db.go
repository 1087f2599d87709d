package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// InitSQLite opens the diagnostics database and creates the schemas for
// profile sessions and input journals.
func InitSQLite(dbPath string) (*sql.DB, error) {
	if dbPath != MemoryDSN {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// Every pooled connection to :memory: would see its own empty database.
	if dbPath == MemoryDSN {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS profile_sessions (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS profile_scopes (
			session_id TEXT NOT NULL,
			name TEXT NOT NULL,
			count INTEGER NOT NULL,
			total_ns INTEGER NOT NULL,
			mean_ns INTEGER NOT NULL,
			min_ns INTEGER NOT NULL,
			max_ns INTEGER NOT NULL,
			PRIMARY KEY (session_id, name),
			FOREIGN KEY (session_id) REFERENCES profile_sessions(id)
		);`,
		`CREATE TABLE IF NOT EXISTS journal_entries (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			timestamp INTEGER NOT NULL,
			entry_type TEXT NOT NULL,
			payload TEXT NOT NULL,
			delta REAL NOT NULL DEFAULT 0
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_journal_session_seq ON journal_entries(session_id, seq);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
