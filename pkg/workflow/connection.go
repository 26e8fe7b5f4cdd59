package workflow

import (
	"errors"
	"fmt"
)

// Connection is a directed edge between two nodes' ids.
type Connection struct {
	Source NodeID `json:"source" yaml:"source"`
	Target NodeID `json:"target" yaml:"target"`
}

// Validate checks connection-local invariants. Whether both endpoints exist
// in the owning document is checked by the document, not here.
func (c *Connection) Validate() error {
	if c.Source == "" {
		return errors.New("connection: empty source node")
	}
	if c.Target == "" {
		return errors.New("connection: empty target node")
	}
	if c.Source == c.Target {
		return fmt.Errorf("%w: %s", ErrSelfConnection, c.Source)
	}
	return nil
}
