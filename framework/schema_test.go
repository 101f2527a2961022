package framework

import (
	"strings"
	"testing"
)

// TestSchemaValidateRequired reports every missing required field.
func TestSchemaValidateRequired(t *testing.T) {
	schema := ObjectSchema(map[string]Property{
		"object": {Type: "string"},
		"query":  {Type: "string"},
	}, "object", "query")

	problems := schema.Validate(map[string]interface{}{})
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems, got %v", problems)
	}
	for _, p := range problems {
		if !strings.Contains(p, "missing required field") {
			t.Fatalf("unexpected problem text: %q", p)
		}
	}
}

// TestSchemaValidateTypes checks primitive type enforcement, including the
// JSON-decoded whole-float-as-integer case.
func TestSchemaValidateTypes(t *testing.T) {
	schema := ObjectSchema(map[string]Property{
		"name":    {Type: "string"},
		"limit":   {Type: "integer"},
		"amount":  {Type: "number"},
		"dryRun":  {Type: "boolean"},
		"payload": {Type: "object"},
		"ids":     {Type: "array"},
	})

	valid := map[string]interface{}{
		"name":    "Account",
		"limit":   float64(10), // decoded JSON numbers arrive as float64
		"amount":  12.5,
		"dryRun":  true,
		"payload": map[string]interface{}{"a": 1},
		"ids":     []interface{}{"001"},
	}
	if problems := schema.Validate(valid); len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}

	invalid := map[string]interface{}{
		"name":   42,
		"limit":  2.5,
		"dryRun": "yes",
	}
	problems := schema.Validate(invalid)
	if len(problems) != 3 {
		t.Fatalf("expected 3 problems, got %v", problems)
	}
}

// TestSchemaValidateUnknownFields confirms undeclared arguments pass
// through; tools decide for themselves whether to reject extras.
func TestSchemaValidateUnknownFields(t *testing.T) {
	schema := ObjectSchema(map[string]Property{"name": {Type: "string"}})
	if problems := schema.Validate(map[string]interface{}{"name": "x", "extra": 1}); len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
}

// TestNilSchemaValidates treats a nil schema as accepting anything, matching
// zero-argument tools.
func TestNilSchemaValidates(t *testing.T) {
	var schema *Schema
	if problems := schema.Validate(map[string]interface{}{"anything": true}); problems != nil {
		t.Fatalf("unexpected problems: %v", problems)
	}
}
