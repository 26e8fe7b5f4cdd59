package workflow

// Repository is the persistence extension point for workflow documents.
// The in-memory Collection never depends on it; "Save" in the designer is
// wired to an implementation of this interface by the surrounding
// application.
type Repository interface {
	// Save persists a workflow document.
	Save(doc *Document) error

	// Load retrieves a workflow by ID.
	Load(id WorkflowID) (*Document, error)

	// Delete removes a workflow from storage.
	Delete(id WorkflowID) error

	// List returns all stored workflows.
	List() ([]*Document, error)
}
