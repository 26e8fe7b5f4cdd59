// Package simulate implements the in-process execution simulator: a
// sequential replay of a workflow's node list that advances node statuses
// for visualization. It is a stand-in for the remote execution backend, not
// a workflow engine: connections are not consulted for ordering unless the
// caller explicitly opts in.
package simulate

import (
	"time"

	"github.com/google/uuid"

	"github.com/flowlet/studio/pkg/workflow"
)

// RunID is a unique identifier for one simulation pass.
type RunID string

// String returns the string representation of the RunID.
func (r RunID) String() string {
	return string(r)
}

// NewRunID generates a new unique RunID.
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

// RunStatus is the lifecycle state of a simulation pass.
type RunStatus string

const (
	// RunStatusRunning indicates the pass is in progress.
	RunStatusRunning RunStatus = "running"
	// RunStatusCompleted indicates every node reached completed.
	RunStatusCompleted RunStatus = "completed"
	// RunStatusCancelled indicates the pass was stopped before finishing.
	RunStatusCancelled RunStatus = "cancelled"
	// RunStatusFailed indicates a status write failed mid-pass, e.g. a
	// node was deleted while the pass was running.
	RunStatusFailed RunStatus = "failed"
)

// Transition records one node status change during a run.
type Transition struct {
	NodeID    workflow.NodeID     `json:"node_id"`
	Status    workflow.NodeStatus `json:"status"`
	Timestamp time.Time           `json:"timestamp"`
}

// Run is the record of one simulation pass over a workflow.
type Run struct {
	ID          RunID               `json:"id"`
	WorkflowID  workflow.WorkflowID `json:"workflow_id"`
	Status      RunStatus           `json:"status"`
	StartedAt   time.Time           `json:"started_at"`
	CompletedAt time.Time           `json:"completed_at,omitempty"`
	Transitions []Transition        `json:"transitions,omitempty"`
}

// newRun creates a run record in the running state.
func newRun(workflowID workflow.WorkflowID) *Run {
	return &Run{
		ID:          NewRunID(),
		WorkflowID:  workflowID,
		Status:      RunStatusRunning,
		StartedAt:   time.Now(),
		Transitions: make([]Transition, 0),
	}
}

// record appends a node transition to the run.
func (r *Run) record(nodeID workflow.NodeID, status workflow.NodeStatus) {
	r.Transitions = append(r.Transitions, Transition{
		NodeID:    nodeID,
		Status:    status,
		Timestamp: time.Now(),
	})
}

// finish marks the run finished with the given status.
func (r *Run) finish(status RunStatus) {
	r.Status = status
	r.CompletedAt = time.Now()
}

// RunRepository is the persistence extension point for run history.
type RunRepository interface {
	// Save persists a run record, replacing any existing record with
	// the same ID.
	Save(run *Run) error

	// Load retrieves a run by ID.
	Load(id RunID) (*Run, error)

	// ListByWorkflow returns all runs for a workflow, newest first.
	ListByWorkflow(id workflow.WorkflowID) ([]*Run, error)

	// Delete removes a run record.
	Delete(id RunID) error
}
