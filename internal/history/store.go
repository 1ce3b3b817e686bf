package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/deusflow/cryptonews/internal/config"
)

// ErrCorrupt marks stored history that can be read but not decoded. Callers
// may start from an empty history; any other Load error must abort the run,
// since saving over an unreadable store would drop its entries.
var ErrCorrupt = errors.New("history store is corrupt")

// Store loads the whole history at the start of a run and saves it at the end.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
	Close() error
}

// Open returns the backend selected by cfg.HistoryBackend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.HistoryBackend {
	case "", "file":
		return NewFileStore(cfg.HistoryFile), nil
	case "sqlite":
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	case "postgres":
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
	}
}
