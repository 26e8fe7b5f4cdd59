package workflow

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlDocument is the YAML structure before conversion to domain objects.
// Ids, statuses, and timestamps are optional in hand-written files and are
// defaulted during conversion.
type yamlDocument struct {
	ID          string           `yaml:"id,omitempty"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Status      string           `yaml:"status,omitempty"`
	Version     int              `yaml:"version,omitempty"`
	CreatedAt   time.Time        `yaml:"created_at,omitempty"`
	UpdatedAt   time.Time        `yaml:"updated_at,omitempty"`
	Nodes       []yamlNode       `yaml:"nodes,omitempty"`
	Connections []yamlConnection `yaml:"connections,omitempty"`
}

type yamlNode struct {
	ID          string                 `yaml:"id,omitempty"`
	Type        string                 `yaml:"type"`
	X           float64                `yaml:"x"`
	Y           float64                `yaml:"y"`
	Label       string                 `yaml:"label,omitempty"`
	Description string                 `yaml:"description,omitempty"`
	Config      map[string]interface{} `yaml:"config,omitempty"`
	Status      string                 `yaml:"status,omitempty"`
}

type yamlConnection struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// Parse converts workflow YAML bytes into a Document. Missing ids are
// generated, missing statuses default to draft/idle, and all document
// invariants are enforced through the same AddNode/AddConnection paths the
// canvas uses.
func Parse(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New("empty YAML input")
	}

	var raw yamlDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse workflow YAML: %w", err)
	}

	doc, err := NewDocument(raw.Name, raw.Description)
	if err != nil {
		return nil, err
	}
	if raw.ID != "" {
		doc.ID = WorkflowID(raw.ID)
	}
	if raw.Status != "" {
		doc.Status = Status(raw.Status)
	}
	if raw.Version > 0 {
		doc.Version = raw.Version
	}
	if !raw.CreatedAt.IsZero() {
		doc.CreatedAt = raw.CreatedAt
	}

	for _, yn := range raw.Nodes {
		node := NewNode(yn.Type, yn.Label, yn.Description, Position{X: yn.X, Y: yn.Y})
		if yn.ID != "" {
			node.ID = NodeID(yn.ID)
		}
		if yn.Status != "" {
			node.Data.Status = NodeStatus(yn.Status)
		}
		if yn.Config != nil {
			node.Data.Config = yn.Config
		}
		if err := doc.AddNode(node); err != nil {
			return nil, fmt.Errorf("node %s: %w", yn.ID, err)
		}
	}

	for _, yc := range raw.Connections {
		if _, err := doc.AddConnection(NodeID(yc.Source), NodeID(yc.Target)); err != nil {
			return nil, err
		}
	}

	// AddNode/AddConnection refresh UpdatedAt; restore the file's timestamp
	// last so a round trip does not rewrite it.
	if !raw.UpdatedAt.IsZero() {
		doc.UpdatedAt = raw.UpdatedAt
	}

	return doc, nil
}

// ParseFile reads and parses a workflow YAML file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}
	return Parse(data)
}
