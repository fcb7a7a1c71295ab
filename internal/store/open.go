package store

import (
	"fmt"

	"github.com/amishk599/yamlassist/internal/config"
	"github.com/amishk599/yamlassist/internal/model"
)

// Open returns the history store selected by cfg.Driver.
func Open(cfg config.HistoryConfig) (model.HistoryStore, error) {
	switch cfg.Driver {
	case "":
		return NewNopStore(), nil
	case "sqlite":
		s, err := NewSQLiteStore(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := NewPostgresStore(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported history driver %q", cfg.Driver)
	}
}
