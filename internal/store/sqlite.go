package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/pagelift/scrape-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite, with the record
// body stored as JSON. Intended for local runs without a MongoDB.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "scrape.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	source_url TEXT NOT NULL,
	scraped_at DATETIME NOT NULL,
	record     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_scraped_at ON documents(scraped_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Upsert(ctx context.Context, doc model.Document) error {
	recordJSON, err := json.Marshal(doc.Record)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal record")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, source_url, scraped_at, record) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET source_url = excluded.source_url,
		                               scraped_at = excluded.scraped_at,
		                               record     = excluded.record`,
		doc.ID, doc.SourceURL, doc.ScrapedAt.UTC().Format(time.RFC3339Nano), string(recordJSON),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: upsert document")
	}

	zap.L().Debug("sqlite: document upserted",
		zap.String("id", doc.ID),
		zap.String("url", doc.SourceURL),
	)
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_url, scraped_at, record FROM documents WHERE id = ?`, id)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get document")
	}
	return doc, nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.Document, error) {
	query := `SELECT id, source_url, scraped_at, record FROM documents ORDER BY scraped_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list documents")
	}
	defer rows.Close() //nolint:errcheck

	var docs []model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan document")
		}
		docs = append(docs, *doc)
	}
	return docs, eris.Wrap(rows.Err(), "sqlite: iterate documents")
}

func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count documents")
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var doc model.Document
	var scrapedAt, recordJSON string

	if err := row.Scan(&doc.ID, &doc.SourceURL, &scrapedAt, &recordJSON); err != nil {
		return nil, err
	}

	at, err := time.Parse(time.RFC3339Nano, scrapedAt)
	if err != nil {
		return nil, eris.Wrap(err, "parse scraped_at")
	}
	doc.ScrapedAt = at

	if err := json.Unmarshal([]byte(recordJSON), &doc.Record); err != nil {
		return nil, eris.Wrap(err, "unmarshal record")
	}

	return &doc, nil
}
