package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/yamlassist/internal/model"
)

// Ensure RecordingAnalyzer implements model.Analyzer.
var _ model.Analyzer = (*RecordingAnalyzer)(nil)

// RecordingAnalyzer is a decorator that writes every analysis to a
// HistoryStore before returning it. Store failures are logged and never
// change the analysis.
type RecordingAnalyzer struct {
	inner  model.Analyzer
	store  model.HistoryStore
	source string
	logger *slog.Logger
	now    func() time.Time
}

// NewRecordingAnalyzer wraps inner so its results are recorded under source
// ("http" or "cli").
func NewRecordingAnalyzer(inner model.Analyzer, store model.HistoryStore, source string, logger *slog.Logger) *RecordingAnalyzer {
	return &RecordingAnalyzer{
		inner:  inner,
		store:  store,
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// Analyze delegates to the wrapped analyzer and records the outcome.
func (r *RecordingAnalyzer) Analyze(ctx context.Context, text string) model.Analysis {
	result := r.inner.Analyze(ctx, text)

	id := uuid.NewString()
	rec := model.AnalysisRecord{
		ID:         id,
		RequestID:  model.RequestIDFrom(ctx),
		Source:     r.source,
		Outcome:    result.Kind.String(),
		InputBytes: len(text),
		Analysis:   result.String(),
		Duration:   result.Duration,
		CreatedAt:  r.now().UTC(),
	}
	if err := r.store.Record(ctx, rec); err != nil {
		r.logger.Warn("failed to record analysis", "id", id, "request_id", rec.RequestID, "error", err)
	}

	return result
}
