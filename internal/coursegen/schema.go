package coursegen

import (
	"github.com/abhisek/coursecheck/internal/course"
	"github.com/abhisek/coursecheck/internal/llm"
	"github.com/abhisek/coursecheck/internal/taxonomy"
)

// outlineSchema builds the JSON schema for outline generation. The cognitive
// level enum comes from the chosen taxonomy, so the schema name carries the
// taxonomy ID: compiled schemas are cached by name and must not collide
// across taxonomies.
func outlineSchema(tx *taxonomy.Taxonomy) *llm.Schema {
	levels := make([]any, 0, len(tx.Levels))
	for _, lv := range tx.Levels {
		levels = append(levels, lv.Value)
	}
	contentTypes := make([]any, 0, len(course.AllContentTypes()))
	for _, ct := range course.AllContentTypes() {
		contentTypes = append(contentTypes, string(ct))
	}
	activityTypes := make([]any, 0, len(course.AllActivityTypes()))
	for _, at := range course.AllActivityTypes() {
		activityTypes = append(activityTypes, string(at))
	}

	return &llm.Schema{
		Name:        "course-outline-" + tx.ID,
		Description: "A draft course outline with modules, lessons, activities, and learning outcomes",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "Course title (3-10 words)",
				},
				"description": map[string]any{
					"type":        "string",
					"description": "One-paragraph course description",
				},
				"modules": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"title": map[string]any{
								"type":        "string",
								"description": "Module title",
							},
							"lessons": map[string]any{
								"type":     "array",
								"minItems": 1,
								"items": map[string]any{
									"type": "object",
									"properties": map[string]any{
										"title": map[string]any{
											"type":        "string",
											"description": "Lesson title",
										},
										"activities": map[string]any{
											"type":     "array",
											"minItems": 1,
											"items": map[string]any{
												"type": "object",
												"properties": map[string]any{
													"id": map[string]any{
														"type":        "string",
														"minLength":   1,
														"description": "Short lowercase slug, unique across the whole course",
													},
													"title": map[string]any{
														"type":        "string",
														"description": "Activity title",
													},
													"content_type": map[string]any{
														"type": "string",
														"enum": contentTypes,
													},
													"activity_type": map[string]any{
														"type": "string",
														"enum": activityTypes,
													},
													"cognitive_level": map[string]any{
														"type": "string",
														"enum": levels,
													},
													"estimated_duration_minutes": map[string]any{
														"type":        "integer",
														"minimum":     1,
														"description": "Realistic learner-facing duration",
													},
													"prerequisite_ids": map[string]any{
														"type":        "array",
														"items":       map[string]any{"type": "string"},
														"description": "IDs of activities that must come first; empty when none",
													},
													"content": map[string]any{
														"type":        "string",
														"description": "1-2 sentence summary of what the activity covers",
													},
												},
												"required":             []any{"id", "title", "content_type", "activity_type", "cognitive_level", "estimated_duration_minutes", "prerequisite_ids", "content"},
												"additionalProperties": false,
											},
										},
									},
									"required":             []any{"title", "activities"},
									"additionalProperties": false,
								},
							},
						},
						"required":             []any{"title", "lessons"},
						"additionalProperties": false,
					},
				},
				"learning_outcomes": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"behavior": map[string]any{
								"type":        "string",
								"description": "Observable learner behavior, stated as a verb phrase",
							},
							"cognitive_level": map[string]any{
								"type": "string",
								"enum": levels,
							},
							"mapped_activity_ids": map[string]any{
								"type":        "array",
								"items":       map[string]any{"type": "string"},
								"description": "IDs of the activities that teach this outcome",
							},
						},
						"required":             []any{"behavior", "cognitive_level", "mapped_activity_ids"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []any{"title", "description", "modules", "learning_outcomes"},
			"additionalProperties": false,
		},
	}
}
