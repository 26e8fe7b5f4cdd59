package workflow

import (
	"errors"
	"fmt"
	"time"
)

// Document represents one workflow: a named graph of nodes and connections.
// Node order is insertion order (the order nodes were added on the canvas);
// the simulator replays nodes in exactly this order.
type Document struct {
	ID          WorkflowID    `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Nodes       []*Node       `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Connections []*Connection `json:"connections,omitempty" yaml:"connections,omitempty"`
	Status      Status        `json:"status" yaml:"status"`
	Version     int           `json:"version" yaml:"version"`
	CreatedAt   time.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" yaml:"updated_at"`
}

// NewDocument creates an empty draft workflow with the given name.
func NewDocument(name, description string) (*Document, error) {
	if name == "" {
		return nil, errors.New("workflow name cannot be empty")
	}

	now := time.Now()
	return &Document{
		ID:          NewWorkflowID(),
		Name:        name,
		Description: description,
		Nodes:       make([]*Node, 0),
		Connections: make([]*Connection, 0),
		Status:      StatusDraft,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Node returns the node with the given id.
func (d *Document) Node(id NodeID) (*Node, error) {
	for _, node := range d.Nodes {
		if node.ID == id {
			return node, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
}

// HasNode reports whether a node with the given id exists.
func (d *Document) HasNode(id NodeID) bool {
	_, err := d.Node(id)
	return err == nil
}

// AddNode appends a node to the document. Node ids must be unique within
// the document; a duplicate id is rejected with no mutation.
func (d *Document) AddNode(node *Node) error {
	if node == nil {
		return errors.New("cannot add nil node")
	}
	if err := node.Validate(); err != nil {
		return err
	}
	if d.HasNode(node.ID) {
		return fmt.Errorf("duplicate node id: %s", node.ID)
	}

	d.Nodes = append(d.Nodes, node)
	d.UpdatedAt = time.Now()
	return nil
}

// RemoveNode deletes a node and cascades removal of every connection that
// references it as source or target.
func (d *Document) RemoveNode(id NodeID) error {
	found := false
	newNodes := make([]*Node, 0, len(d.Nodes))
	for _, node := range d.Nodes {
		if node.ID != id {
			newNodes = append(newNodes, node)
		} else {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	d.Nodes = newNodes

	newConnections := make([]*Connection, 0, len(d.Connections))
	for _, conn := range d.Connections {
		if conn.Source != id && conn.Target != id {
			newConnections = append(newConnections, conn)
		}
	}
	d.Connections = newConnections

	d.UpdatedAt = time.Now()
	return nil
}

// UpdateNodeData merges a partial data patch into the node with the given
// id. The patch either applies completely or not at all.
func (d *Document) UpdateNodeData(id NodeID, patch NodeDataPatch) error {
	node, err := d.Node(id)
	if err != nil {
		return err
	}

	updated := node.Data
	updated.Config = cloneConfig(node.Data.Config)
	if err := patch.apply(&updated); err != nil {
		return err
	}

	node.Data = updated
	d.UpdatedAt = time.Now()
	return nil
}

// MoveNode updates a node's canvas position.
func (d *Document) MoveNode(id NodeID, pos Position) error {
	node, err := d.Node(id)
	if err != nil {
		return err
	}
	node.Position = pos
	d.UpdatedAt = time.Now()
	return nil
}

// AddConnection appends a directed connection. Both endpoints must exist in
// the document, self-loops are rejected, and duplicate (source, target)
// pairs are rejected.
func (d *Document) AddConnection(source, target NodeID) (*Connection, error) {
	conn := &Connection{Source: source, Target: target}
	if err := conn.Validate(); err != nil {
		return nil, err
	}
	if !d.HasNode(source) {
		return nil, fmt.Errorf("connection source: %w: %s", ErrNodeNotFound, source)
	}
	if !d.HasNode(target) {
		return nil, fmt.Errorf("connection target: %w: %s", ErrNodeNotFound, target)
	}
	for _, existing := range d.Connections {
		if existing.Source == source && existing.Target == target {
			return nil, fmt.Errorf("%w: %s -> %s", ErrDuplicateConnection, source, target)
		}
	}

	d.Connections = append(d.Connections, conn)
	d.UpdatedAt = time.Now()
	return conn, nil
}

// RemoveConnection deletes the connection with the given endpoints.
func (d *Document) RemoveConnection(source, target NodeID) error {
	for i, conn := range d.Connections {
		if conn.Source == source && conn.Target == target {
			d.Connections = append(d.Connections[:i], d.Connections[i+1:]...)
			d.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrConnectionNotFound, source, target)
}

// ResetStatuses sets every node back to idle. Used before a simulation pass.
func (d *Document) ResetStatuses() {
	for _, node := range d.Nodes {
		node.Data.Status = NodeStatusIdle
	}
	d.UpdatedAt = time.Now()
}

// Clone returns a deep copy of the document. The collection hands out and
// stores clones so callers never share mutable state with the stored copy.
func (d *Document) Clone() *Document {
	dup := *d
	dup.Nodes = make([]*Node, len(d.Nodes))
	for i, node := range d.Nodes {
		dup.Nodes[i] = node.Clone()
	}
	dup.Connections = make([]*Connection, len(d.Connections))
	for i, conn := range d.Connections {
		c := *conn
		dup.Connections[i] = &c
	}
	return &dup
}
