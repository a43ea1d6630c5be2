package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchema_Valid(t *testing.T) {
	t.Parallel()

	path := writeSchemaFile(t, `{
		"name": "article",
		"fields": [
			{"key": "headline", "type": "string", "required": true},
			{"key": "word_count", "type": "number"},
			{"key": "topics", "type": "array"}
		]
	}`)

	s, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "article", s.Name)
	assert.Equal(t, []string{"headline", "word_count", "topics"}, s.FieldKeys())
}

func TestLoadSchema_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"no fields", `{"name": "empty", "fields": []}`},
		{"empty key", `{"name": "x", "fields": [{"key": "", "type": "string"}]}`},
		{"duplicate key", `{"name": "x", "fields": [{"key": "a", "type": "string"}, {"key": "a", "type": "number"}]}`},
		{"unknown type", `{"name": "x", "fields": [{"key": "a", "type": "decimal"}]}`},
		{"not json", `{nope`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadSchema(writeSchemaFile(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadSchema_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadSchema(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestConform_ExactSchemaFields(t *testing.T) {
	t.Parallel()

	s := Schema{Name: "t", Fields: []Field{
		{Key: "title", Type: FieldString, Required: true},
		{Key: "price", Type: FieldNumber},
		{Key: "tags", Type: FieldArray},
	}}

	rec, err := s.Conform(map[string]any{
		"title":        "Widget",
		"price":        float64(19.99),
		"tags":         []any{"blue", "metal"},
		"hallucinated": "extra key from the model",
	})
	require.NoError(t, err)

	assert.Len(t, rec, 3)
	assert.NotContains(t, rec, "hallucinated")
	assert.Equal(t, "Widget", rec["title"])
}

func TestConform_MissingOptionalFilledWithNull(t *testing.T) {
	t.Parallel()

	s := Schema{Name: "t", Fields: []Field{
		{Key: "title", Type: FieldString, Required: true},
		{Key: "brand", Type: FieldString},
	}}

	rec, err := s.Conform(map[string]any{"title": "Widget"})
	require.NoError(t, err)
	assert.Contains(t, rec, "brand")
	assert.Nil(t, rec["brand"])
}

func TestConform_MissingRequired(t *testing.T) {
	t.Parallel()

	s := Schema{Name: "t", Fields: []Field{
		{Key: "title", Type: FieldString, Required: true},
	}}

	_, err := s.Conform(map[string]any{"brand": "Acme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required field "title" missing`)
}

func TestConform_TypeMismatch(t *testing.T) {
	t.Parallel()

	s := Schema{Name: "t", Fields: []Field{
		{Key: "price", Type: FieldNumber},
	}}

	_, err := s.Conform(map[string]any{"price": "nineteen dollars"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "price"`)
}

func TestConform_NestedValues(t *testing.T) {
	t.Parallel()

	s := Schema{Name: "t", Fields: []Field{
		{Key: "dimensions", Type: FieldObject},
		{Key: "in_stock", Type: FieldBoolean},
	}}

	rec, err := s.Conform(map[string]any{
		"dimensions": map[string]any{"width": "10cm"},
		"in_stock":   true,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"width": "10cm"}, rec["dimensions"])
	assert.Equal(t, true, rec["in_stock"])
}

func TestDefaultProductSchema(t *testing.T) {
	t.Parallel()

	s := DefaultProductSchema()
	assert.Equal(t, "product", s.Name)
	assert.NotEmpty(t, s.Fields)
	assert.Contains(t, s.FieldKeys(), "title")
	assert.Contains(t, s.PromptSkeleton(), `"tags"`)
}

func writeSchemaFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}
