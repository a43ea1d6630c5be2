package model

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// FieldType is the declared type of a schema field.
type FieldType string

// Supported field types. JSON numbers arrive as float64; integers are
// accepted for FieldNumber as well.
const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldArray   FieldType = "array"
	FieldObject  FieldType = "object"
)

// Field is one named field the extractor should populate.
type Field struct {
	Key         string    `json:"key"`
	Type        FieldType `json:"type"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required,omitempty"`
}

// Schema is a caller-defined set of named fields describing what to
// extract from a page.
type Schema struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// LoadSchema reads a schema definition from a JSON file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "schema: read file")
	}

	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, eris.Wrap(err, "schema: parse")
	}

	if len(s.Fields) == 0 {
		return nil, eris.New("schema: no fields defined")
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Key == "" {
			return nil, eris.New("schema: field with empty key")
		}
		if seen[f.Key] {
			return nil, eris.Errorf("schema: duplicate field %q", f.Key)
		}
		seen[f.Key] = true
		switch f.Type {
		case FieldString, FieldNumber, FieldBoolean, FieldArray, FieldObject:
		default:
			return nil, eris.Errorf("schema: field %q has unknown type %q", f.Key, f.Type)
		}
	}

	return &s, nil
}

// DefaultProductSchema is the built-in product-page schema used when the
// caller supplies none.
func DefaultProductSchema() Schema {
	return Schema{
		Name: "product",
		Fields: []Field{
			{Key: "title", Type: FieldString, Description: "complete product title", Required: true},
			{Key: "brand", Type: FieldString, Description: "brand name"},
			{Key: "sku", Type: FieldString, Description: "product SKU or ID"},
			{Key: "current_price", Type: FieldString, Description: "current price with currency"},
			{Key: "original_price", Type: FieldString, Description: "original price if discounted"},
			{Key: "currency", Type: FieldString, Description: "currency code, e.g. USD"},
			{Key: "availability", Type: FieldString, Description: "in_stock, out_of_stock or preorder"},
			{Key: "short_description", Type: FieldString, Description: "brief product overview"},
			{Key: "full_description", Type: FieldString, Description: "complete product description"},
			{Key: "key_features", Type: FieldArray, Description: "list of key features"},
			{Key: "materials", Type: FieldArray, Description: "list of materials"},
			{Key: "categories", Type: FieldArray, Description: "product categories"},
			{Key: "main_image", Type: FieldString, Description: "primary product image URL"},
			{Key: "average_rating", Type: FieldNumber, Description: "overall review rating"},
			{Key: "total_reviews", Type: FieldNumber, Description: "number of reviews"},
			{Key: "tags", Type: FieldArray, Description: "at least 20 descriptive tags covering type, style, color, material, occasion, season, fit, demographic and price tier"},
		},
	}
}

// FieldKeys returns the schema's field keys in declaration order.
func (s Schema) FieldKeys() []string {
	keys := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		keys[i] = f.Key
	}
	return keys
}

// PromptSkeleton renders the schema as an annotated JSON skeleton for
// embedding in the extraction prompt.
func (s Schema) PromptSkeleton() string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, f := range s.Fields {
		desc := f.Description
		if desc == "" {
			desc = string(f.Type)
		}
		fmt.Fprintf(&b, "  %q: <%s: %s>", f.Key, f.Type, desc)
		if i < len(s.Fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// Conform validates raw model output against the schema and returns a
// Record containing exactly the schema's fields. Keys absent from the
// schema are dropped; optional fields missing from the output are filled
// with null. A missing required field or a type mismatch is an error.
func (s Schema) Conform(raw map[string]any) (Record, error) {
	rec := make(Record, len(s.Fields))
	var problems []string

	for _, f := range s.Fields {
		v, ok := raw[f.Key]
		if !ok || v == nil {
			if f.Required {
				problems = append(problems, fmt.Sprintf("required field %q missing", f.Key))
				continue
			}
			rec[f.Key] = nil
			continue
		}
		if !matchesType(v, f.Type) {
			problems = append(problems, fmt.Sprintf("field %q: expected %s, got %T", f.Key, f.Type, v))
			continue
		}
		rec[f.Key] = v
	}

	if len(problems) > 0 {
		return nil, eris.Errorf("schema %q: %s", s.Name, strings.Join(problems, "; "))
	}
	return rec, nil
}

func matchesType(v any, t FieldType) bool {
	switch t {
	case FieldString:
		_, ok := v.(string)
		return ok
	case FieldNumber:
		switch v.(type) {
		case float64, float32, int, int64:
			return true
		}
		return false
	case FieldBoolean:
		_, ok := v.(bool)
		return ok
	case FieldArray:
		_, ok := v.([]any)
		return ok
	case FieldObject:
		_, ok := v.(map[string]any)
		return ok
	default:
		return false
	}
}
