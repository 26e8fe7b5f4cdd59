package workflow

import (
	"errors"
	"testing"
)

func TestCollectionCreate(t *testing.T) {
	coll := NewCollection()

	doc, err := coll.Create("", "")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if doc.Name != DefaultName {
		t.Errorf("name = %q, want %q", doc.Name, DefaultName)
	}
	if doc.Status != StatusDraft {
		t.Errorf("status = %s, want draft", doc.Status)
	}
	if doc.Version != 1 {
		t.Errorf("version = %d, want 1", doc.Version)
	}
	if coll.CurrentID() != doc.ID {
		t.Error("new workflow was not made current")
	}
	if coll.Len() != 1 {
		t.Errorf("collection length = %d, want 1", coll.Len())
	}
}

func TestNewDefaultCollectionSeedsOneDraft(t *testing.T) {
	coll := NewDefaultCollection()
	if coll.Len() != 1 {
		t.Fatalf("expected 1 seeded workflow, got %d", coll.Len())
	}
	current, err := coll.Current()
	if err != nil {
		t.Fatalf("Current() error: %v", err)
	}
	if current.Name != DefaultName || current.Status != StatusDraft {
		t.Errorf("seeded workflow = %q/%s, want default draft", current.Name, current.Status)
	}
}

func TestSetCurrentUnknownID(t *testing.T) {
	coll := NewCollection()
	first, _ := coll.Create("first", "")

	if err := coll.SetCurrent("no-such-id"); !errors.Is(err, ErrWorkflowNotFound) {
		t.Errorf("expected ErrWorkflowNotFound, got %v", err)
	}
	// Current reference is unchanged after the failed switch.
	if coll.CurrentID() != first.ID {
		t.Error("current reference changed on failed SetCurrent")
	}
}

func TestUpdateBumpsVersionAtomically(t *testing.T) {
	coll := NewCollection()
	doc, _ := coll.Create("versioned", "")

	updated, err := coll.Update(doc.ID, func(d *Document) error {
		return d.AddNode(NewNode("delay", "Delay", "", Position{}))
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("version = %d, want 2", updated.Version)
	}
	if !updated.UpdatedAt.After(doc.UpdatedAt) && !updated.UpdatedAt.Equal(doc.UpdatedAt) {
		t.Error("UpdatedAt was not refreshed")
	}

	// A failing patch must leave the stored document untouched.
	_, err = coll.Update(doc.ID, func(d *Document) error {
		_ = d.AddNode(NewNode("delay", "Delay", "", Position{}))
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected patch error to propagate")
	}

	stored, _ := coll.Get(doc.ID)
	if stored.Version != 2 {
		t.Errorf("version after failed patch = %d, want 2", stored.Version)
	}
	if len(stored.Nodes) != 1 {
		t.Errorf("nodes after failed patch = %d, want 1", len(stored.Nodes))
	}
}

func TestUpdateUnknownWorkflow(t *testing.T) {
	coll := NewCollection()
	_, err := coll.Update("missing", func(d *Document) error { return nil })
	if !errors.Is(err, ErrWorkflowNotFound) {
		t.Errorf("expected ErrWorkflowNotFound, got %v", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	coll := NewCollection()
	doc, _ := coll.Create("isolated", "")

	copy1, _ := coll.Get(doc.ID)
	copy1.Name = "mutated"

	copy2, _ := coll.Get(doc.ID)
	if copy2.Name != "isolated" {
		t.Error("Get returned a shared mutable reference")
	}
}

func TestListCreationOrder(t *testing.T) {
	coll := NewCollection()
	names := []string{"one", "two", "three"}
	for _, name := range names {
		if _, err := coll.Create(name, ""); err != nil {
			t.Fatalf("Create(%q) error: %v", name, err)
		}
	}

	docs := coll.List()
	if len(docs) != len(names) {
		t.Fatalf("List() returned %d docs, want %d", len(docs), len(names))
	}
	for i, doc := range docs {
		if doc.Name != names[i] {
			t.Errorf("docs[%d].Name = %q, want %q", i, doc.Name, names[i])
		}
	}
}
