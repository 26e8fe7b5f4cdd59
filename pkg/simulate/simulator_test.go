package simulate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlet/studio/pkg/workflow"
)

const testStepDelay = 10 * time.Millisecond

func buildWorkflow(t *testing.T, nodeCount int) (*workflow.Collection, *workflow.Document) {
	t.Helper()

	coll := workflow.NewCollection()
	doc, err := coll.Create("Test Workflow", "")
	require.NoError(t, err)

	var prev workflow.NodeID
	for i := 0; i < nodeCount; i++ {
		node := workflow.NewNode("send_notification", "Notify", "", workflow.Position{X: float64(i) * 200, Y: 100})
		source := prev
		doc, err = coll.Update(doc.ID, func(d *workflow.Document) error {
			if err := d.AddNode(node); err != nil {
				return err
			}
			if source != "" {
				_, err := d.AddConnection(source, node.ID)
				return err
			}
			return nil
		})
		require.NoError(t, err)
		prev = node.ID
	}
	return coll, doc
}

func TestRunSequentialTransitions(t *testing.T) {
	coll, doc := buildWorkflow(t, 3)
	runner := NewRunner(coll, WithStepDelay(testStepDelay))

	run, err := runner.Run(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, run.Status)

	// Three nodes produce six transitions: running then completed per node,
	// and node K only starts after node K-1 completed.
	require.Len(t, run.Transitions, 6)
	for i := 0; i < 3; i++ {
		running := run.Transitions[2*i]
		completed := run.Transitions[2*i+1]
		assert.Equal(t, running.NodeID, completed.NodeID)
		assert.Equal(t, workflow.NodeStatusRunning, running.Status)
		assert.Equal(t, workflow.NodeStatusCompleted, completed.Status)
		if i > 0 {
			prevCompleted := run.Transitions[2*i-1]
			assert.False(t, running.Timestamp.Before(prevCompleted.Timestamp),
				"node %d started before node %d completed", i, i-1)
		}
	}

	// Every node's final status is completed in the stored document.
	final, err := coll.Get(doc.ID)
	require.NoError(t, err)
	for _, node := range final.Nodes {
		assert.Equal(t, workflow.NodeStatusCompleted, node.Data.Status)
	}
}

func TestRunResetsStaleStatuses(t *testing.T) {
	coll, doc := buildWorkflow(t, 2)
	runner := NewRunner(coll, WithStepDelay(testStepDelay))

	_, err := runner.Run(context.Background(), doc.ID)
	require.NoError(t, err)

	// A second pass starts from idle and completes cleanly again.
	run, err := runner.Run(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.Len(t, run.Transitions, 4)
}

func TestRunInProgressGuard(t *testing.T) {
	coll, doc := buildWorkflow(t, 5)
	runner := NewRunner(coll, WithStepDelay(50*time.Millisecond))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := runner.Run(context.Background(), doc.ID)
		assert.NoError(t, err)
	}()

	// Wait for the pass to actually start before probing the guard.
	require.Eventually(t, runner.IsRunning, time.Second, time.Millisecond)

	_, err := runner.Run(context.Background(), doc.ID)
	assert.ErrorIs(t, err, ErrRunInProgress)

	<-done
	assert.False(t, runner.IsRunning())

	// After the pass finishes the runner accepts a new one.
	runner2 := NewRunner(coll, WithStepDelay(testStepDelay))
	_, err = runner2.Run(context.Background(), doc.ID)
	assert.NoError(t, err)
}

func TestRunCancellation(t *testing.T) {
	coll, doc := buildWorkflow(t, 3)
	runner := NewRunner(coll, WithStepDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	run, err := runner.Run(ctx, doc.ID)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, run)
	assert.Equal(t, RunStatusCancelled, run.Status)
	assert.False(t, runner.IsRunning())
}

func TestRunFailsWhenNodeRemovedMidPass(t *testing.T) {
	coll, doc := buildWorkflow(t, 2)
	runner := NewRunner(coll, WithStepDelay(50*time.Millisecond))
	events := runner.Monitor().Subscribe()

	// Delete the second node while the first is in its step delay, then
	// keep draining so every event is captured.
	secondID := doc.Nodes[1].ID
	var types []EventType
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			types = append(types, ev.Type)
			if ev.Type == EventNodeStarted {
				_, err := coll.Update(doc.ID, func(d *workflow.Document) error {
					return d.RemoveNode(secondID)
				})
				assert.NoError(t, err)
			}
		}
	}()

	run, err := runner.Run(context.Background(), doc.ID)
	require.ErrorIs(t, err, workflow.ErrNodeNotFound)
	require.NotNil(t, run)
	assert.Equal(t, RunStatusFailed, run.Status)
	assert.False(t, run.CompletedAt.IsZero())
	assert.False(t, runner.IsRunning())

	runner.Monitor().Close()
	<-done
	require.NotEmpty(t, types)
	assert.Equal(t, EventRunFailed, types[len(types)-1],
		"subscribers must see a terminal event for an aborted pass")
}

func TestRunUnknownWorkflow(t *testing.T) {
	coll := workflow.NewCollection()
	runner := NewRunner(coll, WithStepDelay(testStepDelay))

	_, err := runner.Run(context.Background(), workflow.NewWorkflowID())
	assert.ErrorIs(t, err, workflow.ErrWorkflowNotFound)
	assert.False(t, runner.IsRunning())
}

func TestRunTopologicalOrder(t *testing.T) {
	coll := workflow.NewCollection()
	doc, err := coll.Create("Ordered", "")
	require.NoError(t, err)

	// Insert in reverse order but connect first -> second -> third.
	third := workflow.NewNode("update_ledger", "Ledger", "", workflow.Position{X: 500, Y: 100})
	second := workflow.NewNode("fraud_check", "Fraud", "", workflow.Position{X: 300, Y: 100})
	first := workflow.NewNode("payment_received", "Payment", "", workflow.Position{X: 100, Y: 100})
	doc, err = coll.Update(doc.ID, func(d *workflow.Document) error {
		for _, n := range []*workflow.Node{third, second, first} {
			if err := d.AddNode(n); err != nil {
				return err
			}
		}
		if _, err := d.AddConnection(first.ID, second.ID); err != nil {
			return err
		}
		_, err := d.AddConnection(second.ID, third.ID)
		return err
	})
	require.NoError(t, err)

	runner := NewRunner(coll, WithStepDelay(testStepDelay), WithOrder(OrderTopological))
	run, err := runner.Run(context.Background(), doc.ID)
	require.NoError(t, err)

	got := []workflow.NodeID{run.Transitions[0].NodeID, run.Transitions[2].NodeID, run.Transitions[4].NodeID}
	assert.Equal(t, []workflow.NodeID{first.ID, second.ID, third.ID}, got)
}

func TestRunEvents(t *testing.T) {
	coll, doc := buildWorkflow(t, 2)
	runner := NewRunner(coll, WithStepDelay(testStepDelay))

	events := runner.Monitor().Subscribe()

	run, err := runner.Run(context.Background(), doc.ID)
	require.NoError(t, err)
	runner.Monitor().Close()

	var types []EventType
	var last Event
	for ev := range events {
		types = append(types, ev.Type)
		last = ev
	}

	assert.Equal(t, []EventType{
		EventRunStarted,
		EventNodeStarted, EventNodeCompleted,
		EventNodeStarted, EventNodeCompleted,
		EventRunCompleted,
	}, types)
	assert.Equal(t, run.ID, last.RunID)
	assert.Equal(t, 2, last.Completed)
	assert.Equal(t, 2, last.Total)
}

func TestMonitorSubscribeAfterClose(t *testing.T) {
	m := NewMonitor()
	m.Close()

	ch := m.Subscribe()
	_, open := <-ch
	assert.False(t, open)
}

// A trigger connected to an action replays both to completion, with the
// action strictly after the trigger.
func TestPaymentNotificationScenario(t *testing.T) {
	coll := workflow.NewCollection()
	doc, err := coll.Create("Payment Alert", "")
	require.NoError(t, err)

	payment := workflow.NewNode("payment_received", "Payment Received", "", workflow.Position{X: 100, Y: 100})
	notify := workflow.NewNode("send_notification", "Send Notification", "", workflow.Position{X: 300, Y: 100})
	doc, err = coll.Update(doc.ID, func(d *workflow.Document) error {
		if err := d.AddNode(payment); err != nil {
			return err
		}
		if err := d.AddNode(notify); err != nil {
			return err
		}
		_, err := d.AddConnection(payment.ID, notify.ID)
		return err
	})
	require.NoError(t, err)

	runner := NewRunner(coll, WithStepDelay(testStepDelay))
	run, err := runner.Run(context.Background(), doc.ID)
	require.NoError(t, err)

	require.Len(t, run.Transitions, 4)
	assert.Equal(t, payment.ID, run.Transitions[0].NodeID)
	assert.Equal(t, notify.ID, run.Transitions[2].NodeID)

	final, err := coll.Get(doc.ID)
	require.NoError(t, err)
	for _, node := range final.Nodes {
		assert.Equal(t, workflow.NodeStatusCompleted, node.Data.Status)
	}
}
