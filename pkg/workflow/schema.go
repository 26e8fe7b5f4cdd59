package workflow

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// documentSchema is the JSON Schema for an exported workflow document.
// Imported files are validated against this before Parse-level invariant
// checks run.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Flowlet Workflow Document",
  "type": "object",
  "required": ["name"],
  "properties": {
    "id": {"type": "string"},
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "status": {"enum": ["draft", "active", "paused", "archived"]},
    "version": {"type": "integer", "minimum": 1},
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type"],
        "properties": {
          "id": {"type": "string"},
          "type": {"type": "string", "minLength": 1},
          "x": {"type": "number"},
          "y": {"type": "number"},
          "label": {"type": "string"},
          "description": {"type": "string"},
          "config": {"type": "object"},
          "status": {"enum": ["idle", "running", "completed", "error"]}
        }
      }
    },
    "connections": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["source", "target"],
        "properties": {
          "source": {"type": "string", "minLength": 1},
          "target": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

// ValidateAgainstSchema validates workflow YAML bytes against the document
// JSON schema. The YAML is parsed leniently first so schema errors are
// reported in document terms rather than as YAML syntax noise.
func ValidateAgainstSchema(yamlBytes []byte) error {
	if len(yamlBytes) == 0 {
		return errors.New("empty YAML input")
	}

	var raw yamlDocument
	if err := yaml.Unmarshal(yamlBytes, &raw); err != nil {
		return fmt.Errorf("failed to parse YAML for validation: %w", err)
	}

	// gojsonschema validates JSON, so round-trip through encoding/json.
	jsonBytes, err := json.Marshal(schemaDocument(raw))
	if err != nil {
		return fmt.Errorf("failed to convert workflow to JSON for validation: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(documentSchema)
	documentLoader := gojsonschema.NewBytesLoader(jsonBytes)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errMsg string
		for i, desc := range result.Errors() {
			if i > 0 {
				errMsg += "; "
			}
			errMsg += fmt.Sprintf("%s: %s", desc.Field(), desc.Description())
		}
		return fmt.Errorf("schema validation failed: %s", errMsg)
	}

	return nil
}

// schemaDocument maps the YAML form onto the JSON shape the schema expects.
type schemaJSONNode struct {
	ID          string                 `json:"id,omitempty"`
	Type        string                 `json:"type"`
	X           float64                `json:"x"`
	Y           float64                `json:"y"`
	Label       string                 `json:"label,omitempty"`
	Description string                 `json:"description,omitempty"`
	Config      map[string]interface{} `json:"config,omitempty"`
	Status      string                 `json:"status,omitempty"`
}

type schemaJSONConnection struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type schemaJSONDocument struct {
	ID          string                 `json:"id,omitempty"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Status      string                 `json:"status,omitempty"`
	Version     int                    `json:"version,omitempty"`
	Nodes       []schemaJSONNode       `json:"nodes,omitempty"`
	Connections []schemaJSONConnection `json:"connections,omitempty"`
}

func schemaDocument(raw yamlDocument) schemaJSONDocument {
	doc := schemaJSONDocument{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Status:      raw.Status,
		Version:     raw.Version,
	}
	for _, n := range raw.Nodes {
		doc.Nodes = append(doc.Nodes, schemaJSONNode(n))
	}
	for _, c := range raw.Connections {
		doc.Connections = append(doc.Connections, schemaJSONConnection(c))
	}
	return doc
}
