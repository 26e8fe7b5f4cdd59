package simulate

import (
	"sync"
	"time"

	"github.com/flowlet/studio/pkg/workflow"
)

// EventType categorizes simulator events.
type EventType string

const (
	// EventRunStarted is emitted when a simulation pass begins.
	EventRunStarted EventType = "run.started"
	// EventRunCompleted is emitted when a pass finishes all nodes.
	EventRunCompleted EventType = "run.completed"
	// EventRunCancelled is emitted when a pass is stopped early.
	EventRunCancelled EventType = "run.cancelled"
	// EventRunFailed is emitted when a pass aborts on a status write error.
	EventRunFailed EventType = "run.failed"
	// EventNodeStarted is emitted when a node enters running.
	EventNodeStarted EventType = "node.started"
	// EventNodeCompleted is emitted when a node reaches completed.
	EventNodeCompleted EventType = "node.completed"
)

// Event is a real-time notification from a simulation pass.
type Event struct {
	Type      EventType
	Timestamp time.Time
	RunID     RunID
	NodeID    workflow.NodeID
	// Completed and Total give coarse progress for the monitor panel.
	Completed int
	Total     int
}

// Monitor broadcasts simulator events to subscribers. Channels are
// buffered so a slow subscriber cannot stall a pass; events that would
// block are dropped for that subscriber.
type Monitor struct {
	mu          sync.Mutex
	subscribers []chan Event
	closed      bool
}

// NewMonitor creates an event monitor.
func NewMonitor() *Monitor {
	return &Monitor{subscribers: make([]chan Event, 0)}
}

// Subscribe returns a channel that receives simulator events. After Close,
// Subscribe returns an already-closed channel.
func (m *Monitor) Subscribe() <-chan Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, 64)
	m.subscribers = append(m.subscribers, ch)
	return ch
}

// Unsubscribe closes and removes a subscription.
func (m *Monitor) Unsubscribe(ch <-chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			close(sub)
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			break
		}
	}
}

// Close closes all subscriber channels. Further events are discarded.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
}

// emit broadcasts an event to all subscribers without blocking.
func (m *Monitor) emit(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	event.Timestamp = time.Now()
	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber buffer full; drop rather than stall the run.
		}
	}
}
