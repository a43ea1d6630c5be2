package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelift/scrape-cli/internal/config"
)

func TestLoadSchema_Default(t *testing.T) {
	s, err := loadSchema("")
	require.NoError(t, err)
	assert.Equal(t, "product", s.Name)
	assert.NotEmpty(t, s.Fields)
}

func TestLoadSchema_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	body := `{"name":"article","fields":[{"key":"headline","type":"string","required":true}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	s, err := loadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "article", s.Name)
	require.Len(t, s.Fields, 1)
	assert.Equal(t, "headline", s.Fields[0].Key)
}

func TestLoadSchema_MissingFile(t *testing.T) {
	_, err := loadSchema(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestNewScraper_RequiresJinaKey(t *testing.T) {
	cfg = &config.Config{}
	t.Cleanup(func() { cfg = nil })

	_, err := newScraper()
	assert.ErrorContains(t, err, "jina key")
}

func TestNewExtractor_RequiresAnthropicKey(t *testing.T) {
	cfg = &config.Config{}
	t.Cleanup(func() { cfg = nil })

	_, err := newExtractor()
	assert.ErrorContains(t, err, "anthropic key")
}

func TestCommands_Registered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["batch"])
	assert.True(t, names["records"])
}

func TestRun_RequiresURLFlag(t *testing.T) {
	assert.NotNil(t, runCmd.Flags().Lookup("url"))
	assert.NotNil(t, runCmd.Flags().Lookup("output"))
	assert.NotNil(t, batchCmd.Flags().Lookup("csv"))
	assert.NotNil(t, batchCmd.Flags().Lookup("dry-run"))
}
