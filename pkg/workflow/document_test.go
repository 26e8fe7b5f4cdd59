package workflow

import (
	"errors"
	"reflect"
	"testing"
)

func newTestDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := NewDocument("test-workflow", "")
	if err != nil {
		t.Fatalf("NewDocument() error: %v", err)
	}
	return doc
}

func TestNewDocument(t *testing.T) {
	tests := []struct {
		name    string
		wfName  string
		wantErr bool
	}{
		{name: "valid name", wfName: "payment-alerts", wantErr: false},
		{name: "empty name fails", wfName: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewDocument(tt.wfName, "")
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if doc.Status != StatusDraft {
				t.Errorf("expected draft status, got %s", doc.Status)
			}
			if doc.Version != 1 {
				t.Errorf("expected version 1, got %d", doc.Version)
			}
			if doc.ID == "" {
				t.Error("expected generated workflow ID")
			}
		})
	}
}

func TestAddNodeUniqueIDs(t *testing.T) {
	doc := newTestDocument(t)

	seen := make(map[NodeID]bool)
	for i := 0; i < 20; i++ {
		node := NewNode("delay", "Delay", "", Position{X: float64(i), Y: 0})
		if err := doc.AddNode(node); err != nil {
			t.Fatalf("AddNode() error: %v", err)
		}
		if seen[node.ID] {
			t.Fatalf("duplicate node id generated: %s", node.ID)
		}
		seen[node.ID] = true
	}

	// Re-adding an existing node must be rejected.
	if err := doc.AddNode(doc.Nodes[0]); err == nil {
		t.Error("expected error adding node with duplicate id")
	}
}

func TestRemoveNodeCascadesConnections(t *testing.T) {
	doc := newTestDocument(t)

	a := NewNode("payment_received", "Payment Received", "", Position{})
	b := NewNode("fraud_check", "Fraud Check", "", Position{})
	c := NewNode("send_notification", "Send Notification", "", Position{})
	for _, n := range []*Node{a, b, c} {
		if err := doc.AddNode(n); err != nil {
			t.Fatalf("AddNode() error: %v", err)
		}
	}
	for _, pair := range [][2]NodeID{{a.ID, b.ID}, {b.ID, c.ID}, {a.ID, c.ID}} {
		if _, err := doc.AddConnection(pair[0], pair[1]); err != nil {
			t.Fatalf("AddConnection() error: %v", err)
		}
	}

	if err := doc.RemoveNode(b.ID); err != nil {
		t.Fatalf("RemoveNode() error: %v", err)
	}

	for _, conn := range doc.Connections {
		if conn.Source == b.ID || conn.Target == b.ID {
			t.Errorf("connection still references deleted node: %s -> %s", conn.Source, conn.Target)
		}
	}
	if len(doc.Connections) != 1 {
		t.Errorf("expected 1 surviving connection, got %d", len(doc.Connections))
	}

	if err := doc.RemoveNode(b.ID); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestAddConnection(t *testing.T) {
	doc := newTestDocument(t)
	a := NewNode("payment_received", "Payment Received", "", Position{})
	b := NewNode("send_notification", "Send Notification", "", Position{})
	_ = doc.AddNode(a)
	_ = doc.AddNode(b)

	tests := []struct {
		name    string
		source  NodeID
		target  NodeID
		wantErr error
	}{
		{name: "valid connection", source: a.ID, target: b.ID},
		{name: "duplicate pair rejected", source: a.ID, target: b.ID, wantErr: ErrDuplicateConnection},
		{name: "self loop rejected", source: a.ID, target: a.ID, wantErr: ErrSelfConnection},
		{name: "missing source rejected", source: "gone", target: b.ID, wantErr: ErrNodeNotFound},
		{name: "missing target rejected", source: a.ID, target: "gone", wantErr: ErrNodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := doc.AddConnection(tt.source, tt.target)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if len(doc.Connections) != 1 {
		t.Errorf("expected exactly 1 connection, got %d", len(doc.Connections))
	}
}

func TestConnectionToDeletedNodeRejected(t *testing.T) {
	doc := newTestDocument(t)
	a := NewNode("payment_received", "Payment Received", "", Position{})
	b := NewNode("send_notification", "Send Notification", "", Position{})
	_ = doc.AddNode(a)
	_ = doc.AddNode(b)

	staleID := a.ID
	if err := doc.RemoveNode(a.ID); err != nil {
		t.Fatalf("RemoveNode() error: %v", err)
	}

	if _, err := doc.AddConnection(staleID, b.ID); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound for stale source, got %v", err)
	}
	if len(doc.Connections) != 0 {
		t.Errorf("expected no connections, got %d", len(doc.Connections))
	}
}

func TestUpdateNodeDataMergesConfig(t *testing.T) {
	doc := newTestDocument(t)
	node := NewNode("fraud_check", "Fraud Check", "", Position{})
	node.Data.Config = map[string]interface{}{"risk_threshold": 75.0, "block_suspicious": true}
	_ = doc.AddNode(node)

	patch := NodeDataPatch{Config: map[string]interface{}{"risk_threshold": 90.0}}
	if err := doc.UpdateNodeData(node.ID, patch); err != nil {
		t.Fatalf("UpdateNodeData() error: %v", err)
	}

	got, _ := doc.Node(node.ID)
	want := map[string]interface{}{"risk_threshold": 90.0, "block_suspicious": true}
	if !reflect.DeepEqual(got.Data.Config, want) {
		t.Errorf("config after merge = %v, want %v", got.Data.Config, want)
	}

	// Applying the same patch again must be a no-op on the result.
	if err := doc.UpdateNodeData(node.ID, patch); err != nil {
		t.Fatalf("UpdateNodeData() second apply error: %v", err)
	}
	got, _ = doc.Node(node.ID)
	if !reflect.DeepEqual(got.Data.Config, want) {
		t.Errorf("config after repeated merge = %v, want %v", got.Data.Config, want)
	}
}

func TestUpdateNodeDataPartialFields(t *testing.T) {
	doc := newTestDocument(t)
	node := NewNode("delay", "Delay", "wait a bit", Position{})
	_ = doc.AddNode(node)

	label := "Cooling-off period"
	status := NodeStatusRunning
	if err := doc.UpdateNodeData(node.ID, NodeDataPatch{Label: &label, Status: &status}); err != nil {
		t.Fatalf("UpdateNodeData() error: %v", err)
	}

	got, _ := doc.Node(node.ID)
	if got.Data.Label != label {
		t.Errorf("label = %q, want %q", got.Data.Label, label)
	}
	if got.Data.Status != NodeStatusRunning {
		t.Errorf("status = %s, want running", got.Data.Status)
	}
	// Untouched field survives.
	if got.Data.Description != "wait a bit" {
		t.Errorf("description = %q, want original", got.Data.Description)
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc := newTestDocument(t)
	node := NewNode("track_event", "Track Event", "", Position{})
	node.Data.Config["event_name"] = "payment.settled"
	_ = doc.AddNode(node)

	dup := doc.Clone()
	dup.Nodes[0].Data.Config["event_name"] = "mutated"
	dup.Nodes[0].Position.X = 999

	if doc.Nodes[0].Data.Config["event_name"] != "payment.settled" {
		t.Error("clone shares config map with original")
	}
	if doc.Nodes[0].Position.X == 999 {
		t.Error("clone shares node struct with original")
	}
}
