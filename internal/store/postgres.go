package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore keeps analysis history in PostgreSQL, for deployments running
// more than one replica.
type PostgresStore struct {
	*sqlStore
}

// NewPostgresStore connects to databaseURL and ensures the analysis_history
// table exists.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening postgres db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS analysis_history (
		id          TEXT PRIMARY KEY,
		request_id  TEXT NOT NULL,
		source      TEXT NOT NULL,
		outcome     TEXT NOT NULL,
		input_bytes INTEGER NOT NULL,
		analysis    TEXT NOT NULL,
		duration_ms BIGINT NOT NULL,
		created_at  BIGINT NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating analysis_history table: %w", err)
	}

	return &PostgresStore{sqlStore: &sqlStore{db: db, placeholder: dollarN}}, nil
}
