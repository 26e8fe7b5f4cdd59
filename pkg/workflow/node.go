package workflow

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// Position is a logical canvas coordinate. The canvas package maps logical
// coordinates to screen coordinates; the document only ever stores logical
// positions.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NodeData is the mutable payload of a node: display fields, the typed
// configuration bag, and the execution status.
type NodeData struct {
	Label       string                 `json:"label" yaml:"label"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Config      map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
	Status      NodeStatus             `json:"status" yaml:"status"`
}

// Node is a single step in a workflow, typed from the node catalog.
type Node struct {
	ID       NodeID   `json:"id" yaml:"id"`
	Type     string   `json:"type" yaml:"type"`
	Position Position `json:"position" yaml:"position"`
	Data     NodeData `json:"data" yaml:"data"`
}

// NewNode creates a node of the given catalog type at a canvas position.
// The id is generated once here and is stable for the node's lifetime.
func NewNode(typeID, label, description string, pos Position) *Node {
	return &Node{
		ID:       NewNodeID(),
		Type:     typeID,
		Position: pos,
		Data: NodeData{
			Label:       label,
			Description: description,
			Config:      make(map[string]interface{}),
			Status:      NodeStatusIdle,
		},
	}
}

// Validate checks node-local invariants.
func (n *Node) Validate() error {
	if n.ID == "" {
		return errors.New("node: empty node ID")
	}
	if n.Type == "" {
		return fmt.Errorf("node %s: empty type", n.ID)
	}
	return nil
}

// NodeDataPatch is a partial update to a node's data. Nil fields are left
// untouched; Config entries are merged into the existing config without
// dropping sibling keys.
type NodeDataPatch struct {
	Label       *string
	Description *string
	Status      *NodeStatus
	Config      map[string]interface{}
}

// apply merges the patch into the node data. Config merging goes through
// mergo so nested maps merge key-wise instead of being replaced wholesale.
func (p NodeDataPatch) apply(data *NodeData) error {
	if p.Label != nil {
		data.Label = *p.Label
	}
	if p.Description != nil {
		data.Description = *p.Description
	}
	if p.Status != nil {
		data.Status = *p.Status
	}
	if len(p.Config) > 0 {
		if data.Config == nil {
			data.Config = make(map[string]interface{}, len(p.Config))
		}
		if err := mergo.Map(&data.Config, p.Config, mergo.WithOverride); err != nil {
			return fmt.Errorf("merging node config: %w", err)
		}
	}
	return nil
}

// Clone returns a deep copy of the node. Callers that hand a node to the
// collection keep their own copy; the stored document is never aliased.
func (n *Node) Clone() *Node {
	dup := *n
	dup.Data.Config = cloneConfig(n.Data.Config)
	return &dup
}

func cloneConfig(config map[string]interface{}) map[string]interface{} {
	if config == nil {
		return nil
	}
	dup := make(map[string]interface{}, len(config))
	for k, v := range config {
		if nested, ok := v.(map[string]interface{}); ok {
			dup[k] = cloneConfig(nested)
			continue
		}
		dup[k] = v
	}
	return dup
}
