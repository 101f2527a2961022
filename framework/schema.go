package framework

import "fmt"

// Property describes one accepted argument inside a Schema.
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
	Items       *Property `json:"items,omitempty"`
}

// Schema is the subset of JSON Schema needed to describe tool arguments:
// an object with typed properties and a required list. It doubles as the
// wire shape sent to the language model as the tool's parameter definition.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// ObjectSchema builds an object schema from properties and required names.
func ObjectSchema(props map[string]Property, required ...string) *Schema {
	return &Schema{Type: "object", Properties: props, Required: required}
}

// Validate checks args against the schema: every required field must be
// present, and present fields must match their declared primitive type.
// All problems are collected so the caller can report them in one pass.
func (s *Schema) Validate(args map[string]interface{}) []string {
	if s == nil {
		return nil
	}
	var problems []string
	for _, field := range s.Required {
		if _, ok := args[field]; !ok {
			problems = append(problems, fmt.Sprintf("%s: missing required field", field))
		}
	}
	for key, value := range args {
		prop, ok := s.Properties[key]
		if !ok || prop.Type == "" {
			continue
		}
		if err := checkType(value, prop.Type); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", key, err))
		}
	}
	return problems
}

func checkType(value interface{}, expected string) error {
	switch expected {
	case "string":
		if _, ok := value.(string); ok {
			return nil
		}
	case "number":
		switch value.(type) {
		case float64, float32, int, int32, int64:
			return nil
		}
	case "integer":
		switch v := value.(type) {
		case int, int32, int64:
			return nil
		case float64:
			if v == float64(int64(v)) {
				return nil
			}
		}
	case "boolean":
		if _, ok := value.(bool); ok {
			return nil
		}
	case "object":
		if _, ok := value.(map[string]interface{}); ok {
			return nil
		}
	case "array":
		if _, ok := value.([]interface{}); ok {
			return nil
		}
	default:
		return nil
	}
	return fmt.Errorf("expected %s, got %T", expected, value)
}
