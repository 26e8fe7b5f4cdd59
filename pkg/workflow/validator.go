package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flowlet/studio/pkg/catalog"
)

// Validate checks all document invariants: unique node ids, node types that
// resolve in the catalog, connections whose endpoints exist, no duplicate
// connection pairs, and no self-loops. All violations are collected and
// reported together.
func Validate(doc *Document, cat *catalog.Catalog) error {
	if doc == nil {
		return errors.New("workflow cannot be nil")
	}

	var violations []string

	seen := make(map[NodeID]bool, len(doc.Nodes))
	for _, node := range doc.Nodes {
		if node.ID == "" {
			violations = append(violations, "found node with empty node ID")
			continue
		}
		if seen[node.ID] {
			violations = append(violations, fmt.Sprintf("duplicate node ID: %s", node.ID))
		}
		seen[node.ID] = true

		if cat != nil && !cat.Contains(node.Type) {
			violations = append(violations, fmt.Sprintf("node %s has unknown type: %s", node.ID, node.Type))
		}
	}

	pairs := make(map[string]bool, len(doc.Connections))
	for _, conn := range doc.Connections {
		if err := conn.Validate(); err != nil {
			violations = append(violations, err.Error())
			continue
		}
		if !seen[conn.Source] {
			violations = append(violations, fmt.Sprintf("connection references missing source node: %s", conn.Source))
		}
		if !seen[conn.Target] {
			violations = append(violations, fmt.Sprintf("connection references missing target node: %s", conn.Target))
		}
		key := conn.Source.String() + "->" + conn.Target.String()
		if pairs[key] {
			violations = append(violations, fmt.Sprintf("duplicate connection: %s", key))
		}
		pairs[key] = true
	}

	if len(violations) > 0 {
		return fmt.Errorf("workflow validation failed: %s", strings.Join(violations, "; "))
	}
	return nil
}

// TopologicalOrder returns node ids ordered so that every connection's
// source precedes its target. Returns an error if the connection graph
// contains a cycle.
//
// The simulator does NOT use this by default: it replays nodes in list
// order. Topological replay is an explicit opt-in (see simulate.Order).
func TopologicalOrder(doc *Document) ([]NodeID, error) {
	if doc == nil {
		return nil, errors.New("workflow cannot be nil")
	}

	adjacency := make(map[NodeID][]NodeID)
	inDegree := make(map[NodeID]int, len(doc.Nodes))
	for _, node := range doc.Nodes {
		inDegree[node.ID] = 0
	}
	for _, conn := range doc.Connections {
		adjacency[conn.Source] = append(adjacency[conn.Source], conn.Target)
		inDegree[conn.Target]++
	}

	// Kahn's algorithm, seeded in node list order so independent nodes
	// keep their insertion order.
	queue := make([]NodeID, 0, len(doc.Nodes))
	for _, node := range doc.Nodes {
		if inDegree[node.ID] == 0 {
			queue = append(queue, node.ID)
		}
	}

	ordered := make([]NodeID, 0, len(doc.Nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		ordered = append(ordered, id)

		for _, next := range adjacency[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(ordered) != len(doc.Nodes) {
		return nil, errors.New("workflow contains a connection cycle")
	}
	return ordered, nil
}
