package simulate

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/flowlet/studio/pkg/workflow"
)

// DefaultStepDelay is the pause between a node entering running and
// reaching completed. Matches the designer's visualization pacing.
const DefaultStepDelay = time.Second

// ErrRunInProgress is returned when Run is called while a pass is already
// running on the same runner.
var ErrRunInProgress = errors.New("simulation already in progress")

// Order selects how the simulator sequences nodes.
type Order int

const (
	// OrderListed replays nodes in document list order, ignoring the
	// connection graph. This is the designer's observed behavior and the
	// default.
	OrderListed Order = iota
	// OrderTopological replays nodes in connection order. Opt-in only;
	// fails on connection cycles.
	OrderTopological
)

// Option configures a Runner.
type Option func(*Runner)

// WithStepDelay sets the per-node delay.
func WithStepDelay(d time.Duration) Option {
	return func(r *Runner) { r.stepDelay = d }
}

// WithOrder sets the node sequencing strategy.
func WithOrder(o Order) Option {
	return func(r *Runner) { r.order = o }
}

// WithRepository enables run-history persistence.
func WithRepository(repo RunRepository) Option {
	return func(r *Runner) { r.repo = repo }
}

// Runner executes simulation passes over workflows in a collection. One
// runner allows one pass at a time; node statuses are written through
// Collection.Update, the same path the canvas controller uses, so every
// transition is an atomic, version-bumped document update.
type Runner struct {
	collection *workflow.Collection
	stepDelay  time.Duration
	order      Order
	repo       RunRepository
	monitor    *Monitor
	inFlight   atomic.Bool
}

// NewRunner creates a simulator over a workflow collection.
func NewRunner(coll *workflow.Collection, opts ...Option) *Runner {
	r := &Runner{
		collection: coll,
		stepDelay:  DefaultStepDelay,
		order:      OrderListed,
		monitor:    NewMonitor(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Monitor returns the runner's event monitor.
func (r *Runner) Monitor() *Monitor {
	return r.monitor
}

// IsRunning reports whether a pass is currently in progress.
func (r *Runner) IsRunning() bool {
	return r.inFlight.Load()
}

// Run executes one simulation pass over the given workflow: each node is
// transitioned idle -> running -> completed in sequence with the step delay
// in between. Node N+1 never starts before node N completes.
//
// A second Run while a pass is in progress returns ErrRunInProgress without
// touching any document. Cancelling the context stops the pass between
// transitions; statuses already written stay written and the returned run
// has status cancelled. A status write failing mid-pass (a node deleted
// concurrently) finalizes the run as failed.
func (r *Runner) Run(ctx context.Context, id workflow.WorkflowID) (*Run, error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer r.inFlight.Store(false)

	doc, err := r.collection.Get(id)
	if err != nil {
		return nil, err
	}

	sequence, err := r.sequence(doc)
	if err != nil {
		return nil, err
	}

	// Reset every node to idle so a re-run starts clean.
	if _, err := r.collection.Update(id, func(d *workflow.Document) error {
		d.ResetStatuses()
		return nil
	}); err != nil {
		return nil, err
	}

	run := newRun(id)
	total := len(sequence)
	r.monitor.emit(Event{Type: EventRunStarted, RunID: run.ID, Total: total})

	for i, nodeID := range sequence {
		if err := ctx.Err(); err != nil {
			return r.cancel(run, err)
		}

		if err := r.setStatus(id, nodeID, workflow.NodeStatusRunning); err != nil {
			return r.fail(run, err)
		}
		run.record(nodeID, workflow.NodeStatusRunning)
		r.monitor.emit(Event{Type: EventNodeStarted, RunID: run.ID, NodeID: nodeID, Completed: i, Total: total})

		select {
		case <-ctx.Done():
			return r.cancel(run, ctx.Err())
		case <-time.After(r.stepDelay):
		}

		if err := r.setStatus(id, nodeID, workflow.NodeStatusCompleted); err != nil {
			return r.fail(run, err)
		}
		run.record(nodeID, workflow.NodeStatusCompleted)
		r.monitor.emit(Event{Type: EventNodeCompleted, RunID: run.ID, NodeID: nodeID, Completed: i + 1, Total: total})
	}

	run.finish(RunStatusCompleted)
	r.persist(run)
	r.monitor.emit(Event{Type: EventRunCompleted, RunID: run.ID, Completed: total, Total: total})
	return run, nil
}

// sequence resolves the node order for a pass.
func (r *Runner) sequence(doc *workflow.Document) ([]workflow.NodeID, error) {
	if r.order == OrderTopological {
		ordered, err := workflow.TopologicalOrder(doc)
		if err != nil {
			return nil, fmt.Errorf("topological order: %w", err)
		}
		return ordered, nil
	}

	ids := make([]workflow.NodeID, 0, len(doc.Nodes))
	for _, node := range doc.Nodes {
		ids = append(ids, node.ID)
	}
	return ids, nil
}

// setStatus writes one node status through the collection update path.
func (r *Runner) setStatus(id workflow.WorkflowID, nodeID workflow.NodeID, status workflow.NodeStatus) error {
	_, err := r.collection.Update(id, func(doc *workflow.Document) error {
		return doc.UpdateNodeData(nodeID, workflow.NodeDataPatch{Status: &status})
	})
	return err
}

// fail finalizes a run aborted by a status write error, so subscribers
// always see a terminal event for every started run.
func (r *Runner) fail(run *Run, cause error) (*Run, error) {
	run.finish(RunStatusFailed)
	r.persist(run)
	r.monitor.emit(Event{Type: EventRunFailed, RunID: run.ID})
	return run, cause
}

// cancel finalizes a run stopped by context cancellation.
func (r *Runner) cancel(run *Run, cause error) (*Run, error) {
	run.finish(RunStatusCancelled)
	r.persist(run)
	r.monitor.emit(Event{Type: EventRunCancelled, RunID: run.ID})
	return run, cause
}

// persist saves the run record if a repository is configured. Persistence
// failure does not fail the pass; history is best-effort.
func (r *Runner) persist(run *Run) {
	if r.repo == nil {
		return
	}
	_ = r.repo.Save(run)
}
