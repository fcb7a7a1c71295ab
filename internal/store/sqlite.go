package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps analysis history in a local SQLite database.
type SQLiteStore struct {
	*sqlStore
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// analysis_history table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One writer at a time: serialise in-process callers on a single
	// connection, and let other processes wait on busy_timeout.
	db.SetMaxOpenConns(1)

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting sqlite busy_timeout: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS analysis_history (
		id          TEXT PRIMARY KEY,
		request_id  TEXT NOT NULL,
		source      TEXT NOT NULL,
		outcome     TEXT NOT NULL,
		input_bytes INTEGER NOT NULL,
		analysis    TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at  INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating analysis_history table: %w", err)
	}

	return &SQLiteStore{sqlStore: &sqlStore{db: db, placeholder: questionMark}}, nil
}
