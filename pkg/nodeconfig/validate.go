package nodeconfig

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/xeipuuv/gojsonschema"
)

// Schema builds a JSON Schema document for a node type's configuration.
// The schema covers structural checks (types, enums, slider ranges);
// expression and jsonpath fields are typed as strings here and get their
// syntax checked separately by ValidateField.
func Schema(typeID string) map[string]interface{} {
	specs := fieldTable[typeID]
	properties := make(map[string]interface{}, len(specs))
	required := make([]string, 0)

	for _, spec := range specs {
		var prop map[string]interface{}
		switch spec.Kind {
		case KindNumber:
			prop = map[string]interface{}{"type": "number"}
		case KindSlider:
			prop = map[string]interface{}{
				"type":    "number",
				"minimum": spec.Min,
				"maximum": spec.Max,
			}
		case KindBoolean:
			prop = map[string]interface{}{"type": "boolean"}
		case KindSelect:
			prop = map[string]interface{}{"enum": spec.Options}
		default:
			prop = map[string]interface{}{"type": "string"}
		}
		properties[spec.Key] = prop
		if spec.Required {
			required = append(required, spec.Key)
		}
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// ValidateConfig checks a config map against the node type's schema and
// then runs syntax validation on expression and jsonpath fields. Unknown
// type ids validate successfully (there is nothing to check).
func ValidateConfig(typeID string, config map[string]interface{}) error {
	specs := fieldTable[typeID]
	if len(specs) == 0 {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(Schema(typeID))
	documentLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("config schema validation error: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return fmt.Errorf("invalid config for %s: %s", typeID, strings.Join(msgs, "; "))
	}

	for _, spec := range specs {
		value, ok := config[spec.Key]
		if !ok {
			continue
		}
		if err := ValidateField(spec, value); err != nil {
			return fmt.Errorf("field %s: %w", spec.Key, err)
		}
	}
	return nil
}

// ValidateField runs the kind-specific syntax check for a single field
// value. Structural checks (numeric type, enum membership, range) are the
// schema's job; this covers what JSON Schema cannot express.
func ValidateField(spec FieldSpec, value interface{}) error {
	switch spec.Kind {
	case KindExpression:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("expression must be a string, got %T", value)
		}
		return validateExpression(s)
	case KindJSONPath:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("jsonpath must be a string, got %T", value)
		}
		return validateJSONPath(s)
	default:
		return nil
	}
}

// validateExpression compiles the expression to check syntax. Unknown
// variables are allowed since the event payload is only known at runtime.
func validateExpression(value string) error {
	if value == "" {
		return nil // required check is the schema's job
	}

	// Reject obvious escapes out of the expression sandbox.
	unsafePatterns := []string{"os.", "exec.", "http.", "net.", "syscall.", "unsafe."}
	for _, pattern := range unsafePatterns {
		if strings.Contains(value, pattern) {
			return fmt.Errorf("unsafe operation not allowed: %s", pattern)
		}
	}

	if _, err := expr.Compile(value, expr.AllowUndefinedVariables()); err != nil {
		return fmt.Errorf("invalid expression syntax: %w", err)
	}
	return nil
}

// validateJSONPath checks JSONPath syntax: leading $ or @ and balanced
// brackets.
func validateJSONPath(value string) error {
	if value == "" {
		return nil
	}

	if !strings.HasPrefix(value, "$") && !strings.HasPrefix(value, "@") {
		return fmt.Errorf("JSONPath must start with $ or @")
	}

	depth := 0
	for _, r := range value {
		switch r {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
			if depth < 0 {
				return fmt.Errorf("unbalanced brackets in JSONPath")
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("unbalanced brackets in JSONPath")
	}
	return nil
}
