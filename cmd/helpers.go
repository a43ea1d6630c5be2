package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/pagelift/scrape-cli/internal/extract"
	"github.com/pagelift/scrape-cli/internal/model"
	"github.com/pagelift/scrape-cli/internal/scrape"
	"github.com/pagelift/scrape-cli/internal/store"
	anthropicpkg "github.com/pagelift/scrape-cli/pkg/anthropic"
	"github.com/pagelift/scrape-cli/pkg/firecrawl"
	"github.com/pagelift/scrape-cli/pkg/jina"
)

func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// newScraper builds the fetch chain: Jina first, Firecrawl as fallback
// when a key is configured.
func newScraper() (scrape.Scraper, error) {
	if cfg.Jina.Key == "" {
		return nil, eris.New("jina key not configured (set SCRAPE_JINA_KEY)")
	}

	scrapers := []scrape.Scraper{
		scrape.NewJinaAdapter(jina.NewClient(cfg.Jina.Key, jina.WithBaseURL(cfg.Jina.BaseURL))),
	}
	if cfg.Firecrawl.Key != "" {
		scrapers = append(scrapers,
			scrape.NewFirecrawlAdapter(firecrawl.NewClient(cfg.Firecrawl.Key, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))))
	}
	return scrape.NewChain(scrapers...), nil
}

func newExtractor() (*extract.Extractor, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic key not configured (set SCRAPE_ANTHROPIC_KEY)")
	}
	return extract.New(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.Anthropic), nil
}

// loadSchema returns the schema at path, or the built-in product schema
// when no path is given.
func loadSchema(path string) (model.Schema, error) {
	if path == "" {
		return model.DefaultProductSchema(), nil
	}
	s, err := model.LoadSchema(path)
	if err != nil {
		return model.Schema{}, err
	}
	return *s, nil
}
