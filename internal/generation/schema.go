package generation

import "lovereel/internal/volc"

const schemaName = "GeneratedContent"

// ResponseSchema returns the JSON schema the generator is asked to honour.
// It is a hint to the provider; every response is still validated locally.
func ResponseSchema() map[string]any {
	quiz := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "Multiple choice question about the scene",
			},
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 3,
				"maxItems": 3,
			},
			"correct_index": map[string]any{
				"type":    "integer",
				"minimum": 0,
				"maximum": 2,
			},
		},
		"required": []string{"question", "options", "correct_index"},
	}
	scene := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"scene_number": map[string]any{
				"type":    "integer",
				"minimum": 1,
				"maximum": 5,
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Story content mixing real and fictional elements",
			},
			"quiz": quiz,
			"commentary": map[string]any{
				"type":        "string",
				"description": "Humorous director's commentary about the scene",
			},
		},
		"required": []string{"scene_number", "content", "quiz", "commentary"},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Creative romantic comedy title",
			},
			"scenes": map[string]any{
				"type":     "array",
				"items":    scene,
				"minItems": 5,
				"maxItems": 5,
			},
			"bloopers": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":        "string",
					"description": "Funny reactions to wrong quiz answers",
				},
				"minItems": 1,
			},
		},
		"additionalProperties": false,
		"required":             []string{"title", "scenes", "bloopers"},
	}
}

// ResponseFormat wraps ResponseSchema for an OpenAI compatible chat call.
func ResponseFormat() *volc.ResponseFormat {
	return &volc.ResponseFormat{
		Type: "json_schema",
		JSONSchema: &volc.JSONSchemaSpec{
			Name:   schemaName,
			Schema: ResponseSchema(),
		},
	}
}
