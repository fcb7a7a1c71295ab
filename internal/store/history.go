package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/yamlassist/internal/model"
)

// sqlStore holds the queries shared by the SQLite and Postgres backends.
// Timestamps are stored as Unix milliseconds so both drivers agree on them.
type sqlStore struct {
	db          *sql.DB
	placeholder func(n int) string
}

func questionMark(int) string { return "?" }

func dollarN(n int) string { return "$" + strconv.Itoa(n) }

// bind rewrites the ? markers in query for the backend's placeholder style.
func (s *sqlStore) bind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(s.placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Record inserts rec. Records with an existing ID are ignored.
func (s *sqlStore) Record(ctx context.Context, rec model.AnalysisRecord) error {
	query := s.bind(`INSERT INTO analysis_history
		(id, request_id, source, outcome, input_bytes, analysis, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`)
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.RequestID, rec.Source, rec.Outcome, rec.InputBytes, rec.Analysis,
		rec.Duration.Milliseconds(), rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("recording analysis %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *sqlStore) Recent(ctx context.Context, limit int) ([]model.AnalysisRecord, error) {
	query := s.bind(`SELECT id, request_id, source, outcome, input_bytes, analysis, duration_ms, created_at
		FROM analysis_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?`)
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent analyses: %w", err)
	}
	defer rows.Close()

	var records []model.AnalysisRecord
	for rows.Next() {
		var rec model.AnalysisRecord
		var durationMS, createdMS int64
		if err := rows.Scan(&rec.ID, &rec.RequestID, &rec.Source, &rec.Outcome, &rec.InputBytes, &rec.Analysis, &durationMS, &createdMS); err != nil {
			return nil, fmt.Errorf("scanning analysis row: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.CreatedAt = time.UnixMilli(createdMS).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analysis rows: %w", err)
	}
	return records, nil
}

// Close closes the underlying database connection.
func (s *sqlStore) Close() error {
	return s.db.Close()
}
