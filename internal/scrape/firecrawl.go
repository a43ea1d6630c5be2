package scrape

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/pagelift/scrape-cli/pkg/firecrawl"
)

// FirecrawlAdapter wraps a Firecrawl client as a fallback Scraper.
type FirecrawlAdapter struct {
	client firecrawl.Client
}

// NewFirecrawlAdapter creates a FirecrawlAdapter from a Firecrawl client.
func NewFirecrawlAdapter(client firecrawl.Client) *FirecrawlAdapter {
	return &FirecrawlAdapter{client: client}
}

func (f *FirecrawlAdapter) Name() string { return "firecrawl" }

// Supports always returns true; Firecrawl is the last resort.
func (f *FirecrawlAdapter) Supports(_ string) bool { return true }

// Scrape fetches a URL via Firecrawl's single-page scrape endpoint.
func (f *FirecrawlAdapter) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	resp, err := f.client.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:     targetURL,
		Formats: []string{"markdown"},
	})
	if err != nil {
		return nil, err
	}

	if !resp.Success || resp.Data.Markdown == "" {
		return nil, eris.Errorf("firecrawl: empty result for %s", targetURL)
	}

	return &Result{
		Page: Page{
			URL:        resp.Data.URL,
			Title:      resp.Data.Title,
			Content:    resp.Data.Markdown,
			StatusCode: resp.Data.StatusCode,
		},
		Source: "firecrawl",
	}, nil
}
