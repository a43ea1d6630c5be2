// Package pipeline orchestrates a single URL through fetch, extraction
// and storage.
package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pagelift/scrape-cli/internal/extract"
	"github.com/pagelift/scrape-cli/internal/model"
	"github.com/pagelift/scrape-cli/internal/scrape"
	"github.com/pagelift/scrape-cli/internal/store"
)

// Pipeline runs one URL end to end: fetch the page, extract a record
// against the schema, and upsert the resulting document.
type Pipeline struct {
	scraper   scrape.Scraper
	extractor *extract.Extractor
	store     store.Store
	schema    model.Schema
}

// New builds a Pipeline. A nil store skips persistence, which the batch
// command uses for dry runs.
func New(scraper scrape.Scraper, extractor *extract.Extractor, st store.Store, schema model.Schema) *Pipeline {
	return &Pipeline{scraper: scraper, extractor: extractor, store: st, schema: schema}
}

// ProcessURL fetches, extracts and persists one URL. Each stage failure
// is returned as its typed error; a failed fetch or extraction never
// reaches the store.
func (p *Pipeline) ProcessURL(ctx context.Context, url string) (*model.Document, error) {
	start := time.Now()

	res, err := p.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, &FetchError{URL: url, Cause: err}
	}
	zap.L().Debug("fetched page",
		zap.String("url", url),
		zap.String("source", res.Source),
		zap.Int("content_len", len(res.Page.Content)))

	rec, err := p.extractor.Extract(ctx, res.Page, p.schema)
	if err != nil {
		var perr *extract.ParseError
		if errors.As(err, &perr) {
			return nil, &ExtractionError{URL: url, Cause: err}
		}
		return nil, &ServiceError{URL: url, Cause: err}
	}

	doc := model.NewDocument(url, rec, time.Now())
	if p.store != nil {
		if err := p.store.Upsert(ctx, doc); err != nil {
			return nil, &StorageError{URL: url, Cause: err}
		}
	}

	zap.L().Info("processed url",
		zap.String("url", url),
		zap.String("doc_id", doc.ID),
		zap.Duration("took", time.Since(start)))
	return &doc, nil
}
