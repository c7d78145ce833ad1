package course

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// documentSchema is the JSON schema every imported course document must
// satisfy before it is unmarshaled. It pins structure and types only; enum
// membership is checked after normalization so authors may use any case.
// Unknown extra fields are tolerated for forward compatibility.
var documentSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "title", "modules"},
	"properties": map[string]any{
		"id":                      map[string]any{"type": "string", "minLength": 1},
		"title":                   map[string]any{"type": "string", "minLength": 1},
		"description":             map[string]any{"type": "string"},
		"target_duration_minutes": map[string]any{"type": "integer", "minimum": 0},
		"modules": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "title"},
				"properties": map[string]any{
					"id":    map[string]any{"type": "string", "minLength": 1},
					"title": map[string]any{"type": "string"},
					"lessons": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "object",
							"required": []any{"id", "title"},
							"properties": map[string]any{
								"id":    map[string]any{"type": "string", "minLength": 1},
								"title": map[string]any{"type": "string"},
								"activities": map[string]any{
									"type": "array",
									"items": map[string]any{
										"type":     "object",
										"required": []any{"id", "title", "content_type", "activity_type"},
										"properties": map[string]any{
											"id":                         map[string]any{"type": "string", "minLength": 1},
											"title":                      map[string]any{"type": "string"},
											"content_type":               map[string]any{"type": "string", "minLength": 1},
											"activity_type":              map[string]any{"type": "string", "minLength": 1},
											"cognitive_level":            map[string]any{"type": "string"},
											"bloom_level":                map[string]any{"type": "string"},
											"build_state":                map[string]any{"type": "string"},
											"estimated_duration_minutes": map[string]any{"type": "integer", "minimum": 0},
											"prerequisite_ids": map[string]any{
												"type":  "array",
												"items": map[string]any{"type": "string"},
											},
											"phase_hint": map[string]any{"type": "string"},
											"content":    map[string]any{"type": "string"},
										},
									},
								},
							},
						},
					},
				},
			},
		},
		"learning_outcomes": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "behavior"},
				"properties": map[string]any{
					"id":              map[string]any{"type": "string", "minLength": 1},
					"behavior":        map[string]any{"type": "string"},
					"cognitive_level": map[string]any{"type": "string"},
					"bloom_level":     map[string]any{"type": "string"},
					"mapped_activity_ids": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// validateDocument checks raw JSON against the course document schema.
func validateDocument(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := compiledDocumentSchema()
	if err != nil {
		return fmt.Errorf("compile course schema: %w", err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("course document invalid: %w", err)
	}
	return nil
}

// compiledDocumentSchema compiles the document schema once and caches it.
func compiledDocumentSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any), not raw
		// bytes. Marshal then unmarshal to get a clean any representation.
		defBytes, err := json.Marshal(documentSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://course.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}
