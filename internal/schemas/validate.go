// Package schemas compiles JSON Schemas and validates documents against
// them, reporting failures by dotted field path.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// RootField names the document itself in a FieldError.
const RootField = "(root)"

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Fields maps each failing field to its first message.
func (ve *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(ve.Errors))
	for _, fe := range ve.Errors {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// Schema is a compiled JSON Schema.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile parses a JSON Schema document.
func Compile(name string, data []byte) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Message: "invalid schema", Cause: err}
	}
	return &Schema{name: name, schema: s}, nil
}

// MustCompile is Compile for schemas embedded at build time.
func MustCompile(name string, data []byte) *Schema {
	s, err := Compile(name, data)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the name the schema was compiled under.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks doc, any value that encodes to JSON, against the schema.
func (s *Schema) Validate(doc any) error {
	return s.validate(gojsonschema.NewGoLoader(doc))
}

// ValidateJSON checks raw JSON content against the schema.
func (s *Schema) ValidateJSON(data []byte) error {
	return s.validate(gojsonschema.NewBytesLoader(data))
}

func (s *Schema) validate(doc gojsonschema.JSONLoader) error {
	result, err := s.schema.Validate(doc)
	if err != nil {
		return fmt.Errorf("failed to validate against %s: %w", s.name, err)
	}
	if result.Valid() {
		return nil
	}

	// Build structured error
	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   fieldPath(desc),
			Message: message(desc),
		})
	}
	return validationErr
}

// fieldPath reports a missing required property at the property itself
// ("location.city") rather than at its parent object.
func fieldPath(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() != "required" {
		if field == "" {
			return RootField
		}
		return field
	}
	prop, _ := desc.Details()["property"].(string)
	switch {
	case prop == "":
		return field
	case field == "" || field == RootField:
		return prop
	default:
		return field + "." + prop
	}
}

func message(desc gojsonschema.ResultError) string {
	switch desc.Type() {
	case "required":
		return "is required"
	case "array_min_items":
		if desc.Details()["min"] == 1 {
			return "must have at least one entry"
		}
	case "string_gte":
		if desc.Details()["min"] == 1 {
			return "is required"
		}
	case "format":
		return fmt.Sprintf("must be a valid %v", desc.Details()["format"])
	}
	return desc.Description()
}
