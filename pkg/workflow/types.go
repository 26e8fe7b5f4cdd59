package workflow

import (
	"errors"

	"github.com/google/uuid"
)

// Common workflow errors
var (
	// ErrWorkflowNotFound is returned when a workflow cannot be found.
	ErrWorkflowNotFound = errors.New("workflow not found")
	// ErrNodeNotFound is returned when a node id does not resolve in a document.
	ErrNodeNotFound = errors.New("node not found")
	// ErrConnectionNotFound is returned when a connection cannot be found.
	ErrConnectionNotFound = errors.New("connection not found")
	// ErrDuplicateConnection is returned when a (source, target) pair already exists.
	ErrDuplicateConnection = errors.New("duplicate connection")
	// ErrSelfConnection is returned when a connection would loop a node to itself.
	ErrSelfConnection = errors.New("connection source and target are the same node")
)

// WorkflowID is a unique identifier for a workflow document.
type WorkflowID string

// String returns the string representation of the WorkflowID.
func (w WorkflowID) String() string {
	return string(w)
}

// NewWorkflowID generates a new unique WorkflowID.
func NewWorkflowID() WorkflowID {
	return WorkflowID(uuid.New().String())
}

// NodeID is a unique identifier for a node within a workflow.
type NodeID string

// String returns the string representation of the NodeID.
func (n NodeID) String() string {
	return string(n)
}

// NewNodeID generates a new unique NodeID.
func NewNodeID() NodeID {
	return NodeID(uuid.New().String())
}

// Status represents the lifecycle state of a workflow document.
type Status string

const (
	// StatusDraft is the initial state of every new workflow.
	StatusDraft Status = "draft"
	// StatusActive indicates the workflow has been published.
	StatusActive Status = "active"
	// StatusPaused indicates a published workflow that is temporarily disabled.
	StatusPaused Status = "paused"
	// StatusArchived indicates the workflow has been retired.
	StatusArchived Status = "archived"
)

// NodeStatus represents the execution state of a single node.
type NodeStatus string

const (
	// NodeStatusIdle indicates the node has not been executed.
	NodeStatusIdle NodeStatus = "idle"
	// NodeStatusRunning indicates the node is currently executing.
	NodeStatusRunning NodeStatus = "running"
	// NodeStatusCompleted indicates the node finished successfully.
	NodeStatusCompleted NodeStatus = "completed"
	// NodeStatusError indicates the node failed. The in-process simulator
	// never sets this state; it is reserved for real execution backends.
	NodeStatusError NodeStatus = "error"
)

// IsTerminal returns true if the node status represents a finished state.
func (s NodeStatus) IsTerminal() bool {
	return s == NodeStatusCompleted || s == NodeStatusError
}
