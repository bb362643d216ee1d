package profile

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaJSON is the strict output schema requested from the extraction
// models. It is also embedded verbatim in the secondary-provider prompt so
// both providers target the same shape.
const SchemaJSON = `{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "role": {"type": "string"},
    "email": {"type": "string"},
    "bio": {"type": "string"},
    "github": {"type": "string"},
    "linkedin": {"type": "string"},
    "skills": {"type": "array", "items": {"type": "string"}},
    "score": {"type": "number"},
    "experience": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "role": {"type": "string"},
          "company": {"type": "string"},
          "duration": {"type": "string"},
          "description": {"type": "string"}
        },
        "required": ["role", "company", "description"]
      }
    },
    "projects": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string"},
          "description": {"type": "string"},
          "technologies": {"type": "array", "items": {"type": "string"}},
          "link": {"type": "string"}
        },
        "required": ["title", "description"]
      }
    },
    "suggestions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "area": {"type": "string"},
          "issue": {"type": "string"},
          "advice": {"type": "string"}
        },
        "required": ["area", "issue", "advice"]
      }
    }
  },
  "required": ["name", "role", "skills", "experience", "projects", "score", "suggestions"]
}`

var schemaLoader = gojsonschema.NewStringLoader(SchemaJSON)

// CheckSchema validates a raw extraction result against SchemaJSON. A non-nil
// error lists the violating fields. Callers treat violations as advisory:
// normalization repairs the shape regardless.
func CheckSchema(raw map[string]any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation failed to run: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var fields []string
	for _, desc := range result.Errors() {
		fields = append(fields, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return fmt.Errorf("profile schema violations: %s", strings.Join(fields, "; "))
}
