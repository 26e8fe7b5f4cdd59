package workflow

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Export serializes a document to workflow YAML, the format Parse accepts.
func Export(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("cannot export nil workflow")
	}

	raw := yamlDocument{
		ID:          doc.ID.String(),
		Name:        doc.Name,
		Description: doc.Description,
		Status:      string(doc.Status),
		Version:     doc.Version,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
		Nodes:       make([]yamlNode, 0, len(doc.Nodes)),
		Connections: make([]yamlConnection, 0, len(doc.Connections)),
	}

	for _, node := range doc.Nodes {
		raw.Nodes = append(raw.Nodes, yamlNode{
			ID:          node.ID.String(),
			Type:        node.Type,
			X:           node.Position.X,
			Y:           node.Position.Y,
			Label:       node.Data.Label,
			Description: node.Data.Description,
			Config:      node.Data.Config,
			Status:      string(node.Data.Status),
		})
	}
	for _, conn := range doc.Connections {
		raw.Connections = append(raw.Connections, yamlConnection{
			Source: conn.Source.String(),
			Target: conn.Target.String(),
		})
	}

	data, err := yaml.Marshal(&raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal workflow: %w", err)
	}
	return data, nil
}

// ExportFile writes a document to a workflow YAML file.
func ExportFile(doc *Document, path string) error {
	data, err := Export(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write workflow file: %w", err)
	}
	return nil
}
