// Package store persists scraped documents keyed by their URL-derived ID.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/pagelift/scrape-cli/internal/config"
	"github.com/pagelift/scrape-cli/internal/model"
)

// ErrNotFound is returned by Get when no document has the given ID.
var ErrNotFound = eris.New("store: document not found")

// Store defines the persistence interface for scraped documents.
type Store interface {
	// Upsert inserts or replaces the document with doc.ID. Repeated calls
	// for the same URL overwrite rather than duplicate.
	Upsert(ctx context.Context, doc model.Document) error
	Get(ctx context.Context, id string) (*model.Document, error)
	List(ctx context.Context, limit int) ([]model.Document, error)
	Count(ctx context.Context) (int64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open builds a Store from configuration. Driver "mongo" (default)
// connects to MongoDB; "sqlite" opens a local database file.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "mongo":
		return NewMongo(ctx, cfg)
	case "sqlite":
		return NewSQLite(cfg.URI)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
