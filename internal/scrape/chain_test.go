package scrape

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubScraper is a canned Scraper for chain tests.
type stubScraper struct {
	name     string
	supports bool
	result   *Result
	err      error
	calls    int
}

func (s *stubScraper) Name() string         { return s.name }
func (s *stubScraper) Supports(string) bool { return s.supports }
func (s *stubScraper) Scrape(_ context.Context, _ string) (*Result, error) {
	s.calls++
	return s.result, s.err
}

func TestChain_FirstSuccess(t *testing.T) {
	t.Parallel()

	first := &stubScraper{name: "jina", supports: true, result: &Result{Source: "jina"}}
	second := &stubScraper{name: "firecrawl", supports: true, result: &Result{Source: "firecrawl"}}

	chain := NewChain(first, second)
	result, err := chain.Scrape(context.Background(), "https://acme.com")

	require.NoError(t, err)
	assert.Equal(t, "jina", result.Source)
	assert.Equal(t, 0, second.calls)
}

func TestChain_FallsThrough(t *testing.T) {
	t.Parallel()

	first := &stubScraper{name: "jina", supports: true, err: eris.New("blocked")}
	second := &stubScraper{name: "firecrawl", supports: true, result: &Result{Source: "firecrawl"}}

	chain := NewChain(first, second)
	result, err := chain.Scrape(context.Background(), "https://acme.com")

	require.NoError(t, err)
	assert.Equal(t, "firecrawl", result.Source)
	assert.Equal(t, 1, first.calls)
}

func TestChain_SkipsUnsupported(t *testing.T) {
	t.Parallel()

	first := &stubScraper{name: "jina", supports: false}
	second := &stubScraper{name: "firecrawl", supports: true, result: &Result{Source: "firecrawl"}}

	chain := NewChain(first, second)
	result, err := chain.Scrape(context.Background(), "https://acme.com")

	require.NoError(t, err)
	assert.Equal(t, "firecrawl", result.Source)
	assert.Equal(t, 0, first.calls)
}

func TestChain_AllFail(t *testing.T) {
	t.Parallel()

	first := &stubScraper{name: "jina", supports: true, err: eris.New("blocked")}
	second := &stubScraper{name: "firecrawl", supports: true, err: eris.New("no credits")}

	chain := NewChain(first, second)
	_, err := chain.Scrape(context.Background(), "https://acme.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all scrapers failed")
}

func TestChain_NoSuitableScraper(t *testing.T) {
	t.Parallel()

	chain := NewChain(&stubScraper{name: "jina", supports: false})
	_, err := chain.Scrape(context.Background(), "https://acme.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no suitable scraper")
}
