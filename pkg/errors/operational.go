// Package errors provides error wrapping with designer operational context.
package errors

import (
	"fmt"
	"time"
)

// OperationalError wraps an error with the workflow and node it occurred
// on, for error tracking across the designer's update paths.
type OperationalError struct {
	Operation  string                 // What operation was being performed
	WorkflowID string                 // Which workflow
	NodeID     string                 // Which node (if applicable)
	Timestamp  time.Time              // When the error occurred
	Attributes map[string]interface{} // Additional context (optional)
	Cause      error                  // Underlying error
}

// NewOperationalError creates an OperationalError wrapping an error.
// Returns nil if cause is nil (no error to wrap).
func NewOperationalError(operation, workflowID, nodeID string, cause error) *OperationalError {
	if cause == nil {
		return nil
	}
	return &OperationalError{
		Operation:  operation,
		WorkflowID: workflowID,
		NodeID:     nodeID,
		Timestamp:  time.Now(),
		Cause:      cause,
	}
}

// WithAttributes attaches extra context to the error and returns it.
func (e *OperationalError) WithAttributes(attrs map[string]interface{}) *OperationalError {
	if e == nil {
		return nil
	}
	e.Attributes = attrs
	return e
}

// Error implements the error interface.
//
// Format: "[timestamp] operation: workflow={id} node={id}: {cause}"
// If the node ID is empty, it is omitted from the message.
func (e *OperationalError) Error() string {
	if e == nil {
		return "<nil OperationalError>"
	}

	timestamp := e.Timestamp.Format(time.RFC3339)
	if e.NodeID != "" {
		return fmt.Sprintf("[%s] %s: workflow=%s node=%s: %v",
			timestamp, e.Operation, e.WorkflowID, e.NodeID, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: workflow=%s: %v",
		timestamp, e.Operation, e.WorkflowID, e.Cause)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *OperationalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
