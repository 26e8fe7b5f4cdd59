// Package catalog defines the static registry of node types available in the
// Flowlet workflow designer. The catalog is read-only: it is built once at
// startup and never mutated afterwards.
package catalog

import (
	"errors"
	"fmt"
)

// Category groups node types in the designer palette.
type Category string

const (
	// CategoryTriggers contains nodes that start a workflow.
	CategoryTriggers Category = "triggers"
	// CategoryActions contains nodes that perform an operation.
	CategoryActions Category = "actions"
	// CategoryLogic contains flow-control nodes.
	CategoryLogic Category = "logic"
	// CategorySecurity contains security and compliance nodes.
	CategorySecurity Category = "security"
	// CategoryAnalytics contains reporting and tracking nodes.
	CategoryAnalytics Category = "analytics"
)

// Label returns the display name for the category.
func (c Category) Label() string {
	switch c {
	case CategoryTriggers:
		return "Triggers"
	case CategoryActions:
		return "Actions"
	case CategoryLogic:
		return "Logic"
	case CategorySecurity:
		return "Security & Compliance"
	case CategoryAnalytics:
		return "Analytics"
	default:
		return string(c)
	}
}

// ErrUnknownNodeType is returned when a type id does not resolve in the catalog.
var ErrUnknownNodeType = errors.New("unknown node type")

// NodeType describes one entry in the catalog.
type NodeType struct {
	// TypeID is the stable identifier referenced by workflow nodes.
	TypeID string
	// Label is the display name shown in the palette.
	Label string
	// Category determines which palette group the type belongs to.
	Category Category
	// Icon is a unicode glyph used by the palette.
	Icon string
	// Color is the design-system color token for the node chrome.
	Color string
	// Description is short help text, copied into new nodes as the
	// default description.
	Description string
}

// Group is one ordered palette section: a category and its node types.
type Group struct {
	Category Category
	Items    []NodeType
}

// Catalog is the set of node types known to the designer.
type Catalog struct {
	order []Category
	types map[string]NodeType
	byCat map[Category][]NodeType
}

// New builds a catalog from the given node types, preserving the order in
// which types appear within each category. Duplicate type ids are rejected.
func New(types []NodeType) (*Catalog, error) {
	c := &Catalog{
		order: []Category{
			CategoryTriggers,
			CategoryActions,
			CategoryLogic,
			CategorySecurity,
			CategoryAnalytics,
		},
		types: make(map[string]NodeType, len(types)),
		byCat: make(map[Category][]NodeType),
	}

	for _, nt := range types {
		if nt.TypeID == "" {
			return nil, errors.New("catalog: node type with empty type id")
		}
		if _, exists := c.types[nt.TypeID]; exists {
			return nil, fmt.Errorf("catalog: duplicate type id: %s", nt.TypeID)
		}
		c.types[nt.TypeID] = nt
		c.byCat[nt.Category] = append(c.byCat[nt.Category], nt)
	}

	return c, nil
}

// Default returns the built-in Flowlet node catalog.
func Default() *Catalog {
	c, err := New(defaultNodeTypes)
	if err != nil {
		// The built-in table is validated by tests; a duplicate here is
		// a programming error.
		panic(err)
	}
	return c
}

// Resolve looks up a node type by id. Returns ErrUnknownNodeType if the id
// is not in the catalog; callers are expected to treat that as "ignore the
// operation" rather than a fatal condition.
func (c *Catalog) Resolve(typeID string) (NodeType, error) {
	nt, ok := c.types[typeID]
	if !ok {
		return NodeType{}, fmt.Errorf("%w: %s", ErrUnknownNodeType, typeID)
	}
	return nt, nil
}

// Contains reports whether the type id resolves in the catalog.
func (c *Catalog) Contains(typeID string) bool {
	_, ok := c.types[typeID]
	return ok
}

// Categories returns the palette groups in display order. Categories with no
// registered types are omitted.
func (c *Catalog) Categories() []Group {
	groups := make([]Group, 0, len(c.order))
	for _, cat := range c.order {
		items := c.byCat[cat]
		if len(items) == 0 {
			continue
		}
		group := Group{Category: cat, Items: make([]NodeType, len(items))}
		copy(group.Items, items)
		groups = append(groups, group)
	}
	return groups
}

// Len returns the number of registered node types.
func (c *Catalog) Len() int {
	return len(c.types)
}
