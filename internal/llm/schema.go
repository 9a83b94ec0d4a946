package llm

// BuildExpenseJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We use it locally to validate the model's reply; nothing is
// required because the reply only fills gaps the regex pass left open.
func BuildExpenseJSONSchema(allowedCategories []string) map[string]any {
	props := map[string]any{
		"vendor":      map[string]any{"type": "string"},
		"amount":      map[string]any{"type": "number", "minimum": 0.0},
		"date":        map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"category":    map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
		"confidence":  map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
		"reasoning":   map[string]any{"type": "string"},
	}

	if len(allowedCategories) > 0 {
		props["category"] = map[string]any{
			"type": "string",
			"enum": allowedCategories,
		}
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": true,
		"properties":           props,
		"required":             []string{},
	}
}
