package store

import (
	"context"

	"github.com/amishk599/yamlassist/internal/model"
)

// NopStore is used when history is disabled. It records nothing.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Record(context.Context, model.AnalysisRecord) error { return nil }
func (s *NopStore) Recent(context.Context, int) ([]model.AnalysisRecord, error) {
	return nil, nil
}
func (s *NopStore) Close() error { return nil }
