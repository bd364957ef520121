package resource

import (
	"fmt"

	"github.com/ugur10/course-store/internal/record"
	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema is a compiled JSON Schema document checked against attributes
// after the declarative field rules pass.
type JSONSchema struct {
	source string
	schema *gojsonschema.Schema
}

// CompileJSONSchema parses and compiles a JSON Schema document.
func CompileJSONSchema(doc string) (*JSONSchema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("invalid json schema: %w", err)
	}
	return &JSONSchema{source: doc, schema: schema}, nil
}

// Source returns the document the schema was compiled from.
func (j *JSONSchema) Source() string {
	return j.source
}

func (j *JSONSchema) validate(attrs record.Attributes) error {
	result, err := j.schema.Validate(gojsonschema.NewGoLoader(map[string]any(attrs)))
	if err != nil {
		return &ValidationError{Message: fmt.Sprintf("schema validation error: %v", err)}
	}
	if result.Valid() {
		return nil
	}

	desc := result.Errors()[0]
	field := desc.Field()
	// root-level "required" errors carry the missing property in the details
	if prop, ok := desc.Details()["property"].(string); ok && field == "(root)" {
		field = prop
	}
	return &ValidationError{Field: field, Message: desc.String()}
}
