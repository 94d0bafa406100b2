package deck

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// deckSchema is the structural contract for deck files. Per-variant answer
// semantics (index ranges, placeholder coverage) are not expressible here;
// the evaluator treats violations as incorrect instead of rejecting them.
var deckSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{"type": "string"},
		"cards": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":   map[string]any{"type": []any{"string", "integer"}},
					"type": map[string]any{
						"type": "string",
						"enum": []any{"MCQ", "SHORT", "OX", "CLOZE", "ORDER", "MATCH"},
					},
					"question":     map[string]any{"type": "string"},
					"options":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 2, "maxItems": 6},
					"answer_index": map[string]any{"type": "integer"},
					"prompt":       map[string]any{"type": "string"},
					"answer":       map[string]any{"type": []any{"string", "boolean"}},
					"statement":    map[string]any{"type": "string"},
					"text":         map[string]any{"type": "string"},
					"clozes": map[string]any{
						"type":                 "object",
						"additionalProperties": map[string]any{"type": "string"},
					},
					"items":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"answer_order": map[string]any{"type": "array", "items": map[string]any{"type": "integer"}},
					"left":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"right":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"pairs": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "integer"},
							"minItems": 2,
							"maxItems": 2,
						},
					},
					"explain": map[string]any{"type": "string"},
					"tags":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"rubric": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"aliases": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						},
					},
				},
				"required": []any{"type"},
			},
		},
	},
	"required": []any{"title", "cards"},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// compiledSchema compiles the deck schema once per process.
func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		defBytes, err := json.Marshal(deckSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal deck schema: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse deck schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://deck.json"
		if err := c.AddResource(url, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(url)
	})
	return compiled, compileErr
}

// Validate checks raw deck JSON against the schema without decoding it.
func Validate(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("deck schema validation failed: %w", err)
	}
	return nil
}
