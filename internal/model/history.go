package model

import (
	"context"
	"time"
)

// AnalysisRecord is one row of analysis history.
type AnalysisRecord struct {
	ID         string
	RequestID  string // X-Request-ID of the originating call; not unique
	Source     string // "http" or "cli"
	Outcome    string // OutcomeKind.String()
	InputBytes int
	Analysis   string
	Duration   time.Duration
	CreatedAt  time.Time
}

// HistoryStore persists analysis records.
type HistoryStore interface {
	Record(ctx context.Context, rec AnalysisRecord) error
	Recent(ctx context.Context, limit int) ([]AnalysisRecord, error)
	Close() error
}

type requestIDKey struct{}

// WithRequestID returns a context carrying the given request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID stored in ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
