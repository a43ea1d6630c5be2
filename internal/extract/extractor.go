// Package extract turns fetched page content into schema-shaped records
// via a single LLM completion call.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pagelift/scrape-cli/internal/config"
	"github.com/pagelift/scrape-cli/internal/model"
	"github.com/pagelift/scrape-cli/internal/scrape"
	"github.com/pagelift/scrape-cli/pkg/anthropic"
)

// maxContentLen caps the page content embedded in the prompt.
const maxContentLen = 50_000

const systemText = "You are an expert data extractor. Extract all available information from the provided webpage content and return it as a single valid JSON object matching the requested structure exactly. Use null for values that are not available and [] for empty lists. Return only JSON, no commentary."

const extractPrompt = `Analyze this webpage content and extract the requested information.

Return a JSON object matching this structure exactly:

%s

Page URL: %s
Page content:
%s`

// ParseError marks model output that could not be interpreted as a record
// conforming to the schema. It distinguishes bad output from transport or
// service failures.
type ParseError struct {
	Cause error
	Raw   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("extract: unparsable model output: %v", e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Extractor builds prompts and parses completions for a declared schema.
type Extractor struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// New creates an Extractor.
func New(client anthropic.Client, cfg config.AnthropicConfig) *Extractor {
	return &Extractor{client: client, cfg: cfg}
}

// Extract sends the page content and schema to the completion service and
// validates the response against the schema. A single attempt only: a
// service failure or unparsable output fails the URL.
func (e *Extractor) Extract(ctx context.Context, page scrape.Page, schema model.Schema) (model.Record, error) {
	content := page.Content
	if len(content) > maxContentLen {
		cut := maxContentLen
		// Back off to a rune boundary so the prompt stays valid UTF-8.
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut]
	}

	prompt := fmt.Sprintf(extractPrompt, schema.PromptSkeleton(), page.URL, content)

	zap.L().Debug("extract: requesting completion",
		zap.String("url", page.URL),
		zap.String("model", e.cfg.Model),
		zap.String("schema", schema.Name),
		zap.Int("prompt_len", len(prompt)),
	)

	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.cfg.Model,
		MaxTokens: e.cfg.MaxTokens,
		System:    systemText,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "extract: completion request")
	}

	text := resp.Text()

	zap.L().Debug("extract: completion received",
		zap.String("url", page.URL),
		zap.String("stop_reason", resp.StopReason),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return nil, &ParseError{Cause: err, Raw: text}
	}

	rec, err := schema.Conform(raw)
	if err != nil {
		return nil, &ParseError{Cause: err, Raw: text}
	}

	return rec, nil
}

// cleanJSON strips markdown code fences and surrounding prose so the
// payload starts at the first brace and ends at the last.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
