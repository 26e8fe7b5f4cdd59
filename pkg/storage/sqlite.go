package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/flowlet/studio/pkg/simulate"
	"github.com/flowlet/studio/pkg/workflow"
)

// SQLiteRunRepository implements simulate.RunRepository using SQLite.
// Provides persistent run history with efficient per-workflow querying.
type SQLiteRunRepository struct {
	db *sql.DB
}

// NewSQLiteRunRepository creates a run repository at the default database
// location (~/.flowstudio/flowstudio.db).
func NewSQLiteRunRepository() (*SQLiteRunRepository, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return NewSQLiteRunRepositoryWithPath(filepath.Join(homeDir, ".flowstudio", "flowstudio.db"))
}

// NewSQLiteRunRepositoryWithPath creates a repository with a custom
// database path. Useful for testing.
func NewSQLiteRunRepositoryWithPath(dbPath string) (*SQLiteRunRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := InitializeDatabase(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &SQLiteRunRepository{db: db}, nil
}

// Close closes the database connection.
func (r *SQLiteRunRepository) Close() error {
	return r.db.Close()
}

// Save persists a run record, replacing any existing row with the same ID.
func (r *SQLiteRunRepository) Save(run *simulate.Run) error {
	if run == nil {
		return fmt.Errorf("cannot save nil run")
	}

	transitions, err := json.Marshal(run.Transitions)
	if err != nil {
		return fmt.Errorf("failed to marshal transitions: %w", err)
	}

	var completedAt interface{}
	if !run.CompletedAt.IsZero() {
		completedAt = run.CompletedAt
	}

	query := `
	INSERT INTO runs (id, workflow_id, status, started_at, completed_at, transitions)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		status = excluded.status,
		completed_at = excluded.completed_at,
		transitions = excluded.transitions;`

	_, err = r.db.Exec(query,
		run.ID.String(),
		run.WorkflowID.String(),
		string(run.Status),
		run.StartedAt,
		completedAt,
		string(transitions),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Load retrieves a run by ID.
func (r *SQLiteRunRepository) Load(id simulate.RunID) (*simulate.Run, error) {
	query := `
	SELECT id, workflow_id, status, started_at, completed_at, transitions
	FROM runs WHERE id = ?;`

	run, err := scanRun(r.db.QueryRow(query, id.String()))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	return run, nil
}

// ListByWorkflow returns all runs for a workflow, newest first.
func (r *SQLiteRunRepository) ListByWorkflow(id workflow.WorkflowID) ([]*simulate.Run, error) {
	query := `
	SELECT id, workflow_id, status, started_at, completed_at, transitions
	FROM runs WHERE workflow_id = ? ORDER BY started_at DESC;`

	rows, err := r.db.Query(query, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := make([]*simulate.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Delete removes a run record.
func (r *SQLiteRunRepository) Delete(id simulate.RunID) error {
	result, err := r.db.Exec("DELETE FROM runs WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*simulate.Run, error) {
	var (
		id, workflowID, status, transitions string
		startedAt                           time.Time
		completedAt                         sql.NullTime
	)

	if err := row.Scan(&id, &workflowID, &status, &startedAt, &completedAt, &transitions); err != nil {
		return nil, err
	}

	run := &simulate.Run{
		ID:         simulate.RunID(id),
		WorkflowID: workflow.WorkflowID(workflowID),
		Status:     simulate.RunStatus(status),
		StartedAt:  startedAt,
	}
	if completedAt.Valid {
		run.CompletedAt = completedAt.Time
	}
	if err := json.Unmarshal([]byte(transitions), &run.Transitions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transitions: %w", err)
	}
	return run, nil
}
