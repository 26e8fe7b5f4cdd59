package canvas

import (
	"errors"
	"fmt"

	"github.com/flowlet/studio/pkg/catalog"
	"github.com/flowlet/studio/pkg/workflow"
)

// ErrNoPendingConnection is returned when CompleteConnection is called
// without a prior BeginConnection.
var ErrNoPendingConnection = errors.New("no pending connection")

// Controller mediates between pointer-level canvas interaction and the
// workflow collection. All document mutation flows through
// Collection.Update so every change is atomic and version-bumped;
// selection and pending-connection state are controller-local UI state and
// are never persisted.
type Controller struct {
	catalog    *catalog.Catalog
	collection *workflow.Collection

	// Viewport is exposed so the rendering layer shares the same
	// transform the controller uses for drops.
	Viewport Viewport

	selectedID    workflow.NodeID
	pendingSource workflow.NodeID
	pendingActive bool
}

// NewController creates a controller over a catalog and collection.
func NewController(cat *catalog.Catalog, coll *workflow.Collection) *Controller {
	return &Controller{
		catalog:    cat,
		collection: coll,
		Viewport:   NewViewport(),
	}
}

// AddNode creates a node of the given catalog type at a logical position in
// the current workflow. Unknown type ids and a missing current workflow are
// rejected with no document mutation. The new node's label and description
// default to the catalog descriptor's.
func (c *Controller) AddNode(typeID string, pos workflow.Position) (*workflow.Node, error) {
	descriptor, err := c.catalog.Resolve(typeID)
	if err != nil {
		return nil, err
	}

	currentID := c.collection.CurrentID()
	if currentID == "" {
		return nil, workflow.ErrWorkflowNotFound
	}

	// The stored document gets its own copy so the returned node never
	// aliases collection state.
	node := workflow.NewNode(typeID, descriptor.Label, descriptor.Description, pos)
	if _, err := c.collection.Update(currentID, func(doc *workflow.Document) error {
		return doc.AddNode(node.Clone())
	}); err != nil {
		return nil, err
	}
	return node, nil
}

// DropNode converts a pointer position through the viewport's inverse
// transform and adds a node there. This is the drag-drop commit path.
func (c *Controller) DropNode(typeID string, pointer, origin Point) (*workflow.Node, error) {
	return c.AddNode(typeID, c.Viewport.DropPosition(pointer, origin))
}

// DeleteNode removes a node from the current workflow, cascading
// connection removal, and clears the selection if the deleted node was
// selected.
func (c *Controller) DeleteNode(id workflow.NodeID) error {
	currentID := c.collection.CurrentID()
	if currentID == "" {
		return workflow.ErrWorkflowNotFound
	}

	if _, err := c.collection.Update(currentID, func(doc *workflow.Document) error {
		return doc.RemoveNode(id)
	}); err != nil {
		return err
	}

	if c.selectedID == id {
		c.selectedID = ""
	}
	if c.pendingActive && c.pendingSource == id {
		c.CancelConnection()
	}
	return nil
}

// UpdateNode merges a partial data patch into a node of the current
// workflow. Sibling config keys already present survive the merge.
func (c *Controller) UpdateNode(id workflow.NodeID, patch workflow.NodeDataPatch) error {
	currentID := c.collection.CurrentID()
	if currentID == "" {
		return workflow.ErrWorkflowNotFound
	}

	_, err := c.collection.Update(currentID, func(doc *workflow.Document) error {
		return doc.UpdateNodeData(id, patch)
	})
	return err
}

// MoveNode repositions a node on the canvas.
func (c *Controller) MoveNode(id workflow.NodeID, pos workflow.Position) error {
	currentID := c.collection.CurrentID()
	if currentID == "" {
		return workflow.ErrWorkflowNotFound
	}

	_, err := c.collection.Update(currentID, func(doc *workflow.Document) error {
		return doc.MoveNode(id, pos)
	})
	return err
}

// SelectNode marks a node as selected. The node must exist in the current
// workflow.
func (c *Controller) SelectNode(id workflow.NodeID) error {
	doc, err := c.collection.Current()
	if err != nil {
		return err
	}
	if !doc.HasNode(id) {
		return fmt.Errorf("%w: %s", workflow.ErrNodeNotFound, id)
	}
	c.selectedID = id
	return nil
}

// ClearSelection clears the selected node.
func (c *Controller) ClearSelection() {
	c.selectedID = ""
}

// SelectedNode returns the currently selected node id ("" if none).
func (c *Controller) SelectedNode() workflow.NodeID {
	return c.selectedID
}

// BeginConnection records the source of a connection being drawn. The
// source must exist in the current workflow.
func (c *Controller) BeginConnection(source workflow.NodeID) error {
	doc, err := c.collection.Current()
	if err != nil {
		return err
	}
	if !doc.HasNode(source) {
		return fmt.Errorf("%w: %s", workflow.ErrNodeNotFound, source)
	}
	c.pendingSource = source
	c.pendingActive = true
	return nil
}

// CompleteConnection finishes a pending connection onto the target node.
// Self-loops, duplicate pairs, and stale node ids are rejected; the pending
// source is cleared whether or not the connection was created.
func (c *Controller) CompleteConnection(target workflow.NodeID) (*workflow.Connection, error) {
	if !c.pendingActive {
		return nil, ErrNoPendingConnection
	}
	source := c.pendingSource
	c.CancelConnection()

	currentID := c.collection.CurrentID()
	if currentID == "" {
		return nil, workflow.ErrWorkflowNotFound
	}

	var conn workflow.Connection
	if _, err := c.collection.Update(currentID, func(doc *workflow.Document) error {
		created, err := doc.AddConnection(source, target)
		if err != nil {
			return err
		}
		conn = *created
		return nil
	}); err != nil {
		return nil, err
	}
	return &conn, nil
}

// CancelConnection clears the pending connection without creating an edge.
func (c *Controller) CancelConnection() {
	c.pendingSource = ""
	c.pendingActive = false
}

// PendingConnection returns the pending source id and whether a connection
// is being drawn.
func (c *Controller) PendingConnection() (workflow.NodeID, bool) {
	return c.pendingSource, c.pendingActive
}
