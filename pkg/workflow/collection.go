package workflow

import (
	"fmt"
	"sync"
	"time"
)

// DefaultName is the name assigned to workflows created without one.
const DefaultName = "New Workflow"

// Collection owns the in-memory set of workflow documents and the
// "current" document reference the canvas and simulator operate on.
//
// The collection is safe for concurrent use: the simulator writes node
// statuses from its own goroutine while the UI thread reads. All reads and
// writes go through clones, so a caller can never mutate the stored copy
// directly; mutation happens only through Update.
type Collection struct {
	mu        sync.RWMutex
	order     []WorkflowID
	documents map[WorkflowID]*Document
	currentID WorkflowID
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		order:     make([]WorkflowID, 0),
		documents: make(map[WorkflowID]*Document),
	}
}

// NewDefaultCollection creates a collection seeded with one draft workflow,
// matching the designer's behavior on first open.
func NewDefaultCollection() *Collection {
	c := NewCollection()
	_, _ = c.Create(DefaultName, "")
	return c
}

// Create allocates a new draft document, appends it to the collection, and
// makes it current. An empty name falls back to DefaultName.
func (c *Collection) Create(name, description string) (*Document, error) {
	if name == "" {
		name = DefaultName
	}
	doc, err := NewDocument(name, description)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.documents[doc.ID] = doc
	c.order = append(c.order, doc.ID)
	c.currentID = doc.ID

	return doc.Clone(), nil
}

// Add inserts an existing document (e.g. one loaded from a repository) into
// the collection without making it current. Duplicate ids are rejected.
func (c *Collection) Add(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("cannot add nil document")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.documents[doc.ID]; exists {
		return fmt.Errorf("duplicate workflow id: %s", doc.ID)
	}
	c.documents[doc.ID] = doc.Clone()
	c.order = append(c.order, doc.ID)
	if c.currentID == "" {
		c.currentID = doc.ID
	}
	return nil
}

// Get returns a copy of the document with the given id.
func (c *Collection) Get(id WorkflowID) (*Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.documents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}
	return doc.Clone(), nil
}

// List returns copies of all documents in creation order.
func (c *Collection) List() []*Document {
	c.mu.RLock()
	defer c.mu.RUnlock()

	docs := make([]*Document, 0, len(c.order))
	for _, id := range c.order {
		docs = append(docs, c.documents[id].Clone())
	}
	return docs
}

// SetCurrent switches the current document. An unknown id returns
// ErrWorkflowNotFound and leaves the current reference unchanged.
func (c *Collection) SetCurrent(id WorkflowID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.documents[id]; !ok {
		return fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}
	c.currentID = id
	return nil
}

// Current returns a copy of the current document, or ErrWorkflowNotFound if
// the collection is empty.
func (c *Collection) Current() (*Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.currentID == "" {
		return nil, ErrWorkflowNotFound
	}
	return c.documents[c.currentID].Clone(), nil
}

// CurrentID returns the id of the current document ("" if none).
func (c *Collection) CurrentID() WorkflowID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentID
}

// Len returns the number of documents in the collection.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.documents)
}

// Update applies a structural patch to the stored document. The patch runs
// against a clone; only if it succeeds is the clone stored back with a
// bumped version and refreshed UpdatedAt. A failed patch leaves the stored
// document untouched, so partial writes are never visible.
func (c *Collection) Update(id WorkflowID, patch func(*Document) error) (*Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.documents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}

	working := stored.Clone()
	if err := patch(working); err != nil {
		return nil, err
	}

	working.Version = stored.Version + 1
	working.UpdatedAt = time.Now()
	c.documents[id] = working

	return working.Clone(), nil
}
