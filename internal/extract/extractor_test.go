package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelift/scrape-cli/internal/config"
	"github.com/pagelift/scrape-cli/internal/model"
	"github.com/pagelift/scrape-cli/internal/scrape"
	"github.com/pagelift/scrape-cli/pkg/anthropic"
)

// fakeClient returns a canned completion and captures the request.
type fakeClient struct {
	text string
	err  error
	got  anthropic.MessageRequest
}

func (f *fakeClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{
		Content:    []anthropic.ContentBlock{{Type: "text", Text: f.text}},
		StopReason: "end_turn",
	}, nil
}

func testSchema() model.Schema {
	return model.Schema{Name: "t", Fields: []model.Field{
		{Key: "title", Type: model.FieldString, Required: true},
		{Key: "price", Type: model.FieldNumber},
	}}
}

func testCfg() config.AnthropicConfig {
	return config.AnthropicConfig{Model: "claude-haiku-4-5-20251001", MaxTokens: 4096}
}

func TestExtract_Success(t *testing.T) {
	t.Parallel()

	client := &fakeClient{text: `{"title": "Widget", "price": 19.99}`}
	ex := New(client, testCfg())

	rec, err := ex.Extract(context.Background(), scrape.Page{URL: "https://acme.com", Content: "page"}, testSchema())
	require.NoError(t, err)
	assert.Equal(t, "Widget", rec["title"])
	assert.Equal(t, 19.99, rec["price"])

	// Prompt carries schema skeleton, URL and page content.
	require.Len(t, client.got.Messages, 1)
	prompt := client.got.Messages[0].Content
	assert.Contains(t, prompt, `"title"`)
	assert.Contains(t, prompt, "https://acme.com")
	assert.Contains(t, prompt, "page")
	assert.Equal(t, "claude-haiku-4-5-20251001", client.got.Model)
}

func TestExtract_FencedOutput(t *testing.T) {
	t.Parallel()

	client := &fakeClient{text: "```json\n{\"title\": \"Widget\", \"price\": null}\n```"}
	ex := New(client, testCfg())

	rec, err := ex.Extract(context.Background(), scrape.Page{URL: "u", Content: "c"}, testSchema())
	require.NoError(t, err)
	assert.Equal(t, "Widget", rec["title"])
	assert.Nil(t, rec["price"])
}

func TestExtract_UnparsableOutput(t *testing.T) {
	t.Parallel()

	client := &fakeClient{text: "I could not find any product information on this page."}
	ex := New(client, testCfg())

	_, err := ex.Extract(context.Background(), scrape.Page{URL: "u", Content: "c"}, testSchema())
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.NotEmpty(t, parseErr.Raw)
}

func TestExtract_SchemaMismatchIsParseError(t *testing.T) {
	t.Parallel()

	client := &fakeClient{text: `{"price": "not a number"}`}
	ex := New(client, testCfg())

	_, err := ex.Extract(context.Background(), scrape.Page{URL: "u", Content: "c"}, testSchema())
	require.Error(t, err)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestExtract_ServiceFailureIsNotParseError(t *testing.T) {
	t.Parallel()

	client := &fakeClient{err: eris.New("HTTP 529 overloaded")}
	ex := New(client, testCfg())

	_, err := ex.Extract(context.Background(), scrape.Page{URL: "u", Content: "c"}, testSchema())
	require.Error(t, err)

	var parseErr *ParseError
	assert.False(t, errors.As(err, &parseErr))
}

func TestExtract_TruncatesLongContent(t *testing.T) {
	t.Parallel()

	long := make([]byte, maxContentLen*2)
	for i := range long {
		long[i] = 'a'
	}

	client := &fakeClient{text: `{"title": "Widget", "price": null}`}
	ex := New(client, testCfg())

	_, err := ex.Extract(context.Background(), scrape.Page{URL: "u", Content: string(long)}, testSchema())
	require.NoError(t, err)
	assert.Less(t, len(client.got.Messages[0].Content), maxContentLen+1000)
}

func TestExtract_TruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	// Pad so a three-byte rune straddles the cutoff, then repeat it past
	// the limit. Byte truncation would leave a broken sequence behind.
	content := strings.Repeat("a", maxContentLen-1) + strings.Repeat("€", 50)

	client := &fakeClient{text: `{"title": "Widget", "price": null}`}
	ex := New(client, testCfg())

	_, err := ex.Extract(context.Background(), scrape.Page{URL: "u", Content: content}, testSchema())
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(client.got.Messages[0].Content))
}

func TestCleanJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced no lang", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading prose", "Here is the JSON:\n{\"a\": 1}", `{"a": 1}`},
		{"trailing prose", "{\"a\": 1}\nHope that helps!", `{"a": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, cleanJSON(tc.in))
		})
	}
}
