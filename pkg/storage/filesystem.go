// Package storage provides the persistence adapters around the in-memory
// designer core: a filesystem repository for workflow documents and a
// SQLite repository for simulation run history.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flowlet/studio/pkg/workflow"
)

// FilesystemWorkflowRepository implements workflow.Repository using
// filesystem storage. Documents are stored as YAML files, one per
// workflow, under <base>/workflows/.
type FilesystemWorkflowRepository struct {
	baseDir string
}

// NewFilesystemWorkflowRepository creates a repository under the default
// config directory (~/.flowstudio/workflows).
func NewFilesystemWorkflowRepository() (*FilesystemWorkflowRepository, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return NewFilesystemWorkflowRepositoryWithPath(filepath.Join(homeDir, ".flowstudio"))
}

// NewFilesystemWorkflowRepositoryWithPath creates a repository with a
// custom base directory. Useful for testing.
func NewFilesystemWorkflowRepositoryWithPath(baseDir string) (*FilesystemWorkflowRepository, error) {
	workflowsDir := filepath.Join(baseDir, "workflows")
	if err := os.MkdirAll(workflowsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workflows directory: %w", err)
	}
	return &FilesystemWorkflowRepository{baseDir: workflowsDir}, nil
}

// Save persists a workflow document as a YAML file. The write goes through
// a temp file + rename so a crash never leaves a half-written document.
func (r *FilesystemWorkflowRepository) Save(doc *workflow.Document) error {
	if doc == nil {
		return fmt.Errorf("cannot save nil workflow")
	}
	if doc.ID == "" {
		return fmt.Errorf("workflow must have an ID")
	}

	data, err := workflow.Export(doc)
	if err != nil {
		return err
	}

	filePath := r.workflowPath(doc.ID)
	tempPath := filePath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write workflow file: %w", err)
	}
	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to save workflow file: %w", err)
	}
	return nil
}

// Load retrieves a workflow document by its ID.
func (r *FilesystemWorkflowRepository) Load(id workflow.WorkflowID) (*workflow.Document, error) {
	if id == "" {
		return nil, fmt.Errorf("workflow ID cannot be empty")
	}

	filePath := r.workflowPath(id)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", workflow.ErrWorkflowNotFound, id)
	}

	return workflow.ParseFile(filePath)
}

// Delete removes a workflow document file.
func (r *FilesystemWorkflowRepository) Delete(id workflow.WorkflowID) error {
	if id == "" {
		return fmt.Errorf("workflow ID cannot be empty")
	}

	filePath := r.workflowPath(id)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", workflow.ErrWorkflowNotFound, id)
	}
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete workflow file: %w", err)
	}
	return nil
}

// List returns all stored workflow documents. Files that fail to parse are
// skipped so one corrupt document does not hide the rest.
func (r *FilesystemWorkflowRepository) List() ([]*workflow.Document, error) {
	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflows directory: %w", err)
	}

	docs := make([]*workflow.Document, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		doc, err := r.Load(workflow.WorkflowID(id))
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// workflowPath returns the full filesystem path for a workflow ID.
func (r *FilesystemWorkflowRepository) workflowPath(id workflow.WorkflowID) string {
	return filepath.Join(r.baseDir, id.String()+".yaml")
}
