// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is wrapped by repositories when a keyed row does not exist.
var ErrNotFound = errors.New("not found")

// FactRepository defines the secondary port for the remote fact store.
type FactRepository interface {
	// List returns every fact row ordered by number. An empty store
	// returns an empty slice, not an error.
	List(ctx context.Context) ([]*FactRecord, error)

	// Upsert writes rows keyed by number. Rows not named are left alone.
	Upsert(ctx context.Context, rows []*FactRecord) error

	// ReplaceAll truncates the table and inserts rows in one transaction.
	ReplaceAll(ctx context.Context, rows []*FactRecord) error

	// Count returns the number of stored facts.
	Count(ctx context.Context) (int, error)
}

// FactRecord represents a fact as stored in persistence.
type FactRecord struct {
	Number        int
	Description   string
	LastValidated string
	UpdatedAt     string
}

// GuidelineRepository defines the secondary port for stored guidelines.
type GuidelineRepository interface {
	// Get returns the stored guidelines text, or "" when none is stored.
	Get(ctx context.Context) (string, error)

	// Set replaces the stored guidelines text.
	Set(ctx context.Context, content string) error
}

// TaskRepository defines the secondary port for task persistence.
type TaskRepository interface {
	// Create persists a new task and fills in its ID and timestamps.
	Create(ctx context.Context, task *TaskRecord) error

	// GetByID retrieves a task by its ID.
	GetByID(ctx context.Context, id int64) (*TaskRecord, error)

	// List retrieves tasks matching the given filters, newest first.
	List(ctx context.Context, filters TaskFilters) ([]*TaskRecord, error)

	// UpdateStatus sets the status of a task and stamps updatedAt.
	UpdateStatus(ctx context.Context, id int64, status string, updatedAt time.Time) error

	// Delete removes a task.
	Delete(ctx context.Context, id int64) error

	// CountByStatus returns task counts keyed by status.
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// TaskRecord represents a task as stored in persistence.
type TaskRecord struct {
	ID            int64
	Title         string
	Status        string
	RequiresHuman bool
	CreatedAt     string
	UpdatedAt     string
}

// TaskFilters contains filter options for querying tasks.
type TaskFilters struct {
	Status        string
	RequiresHuman *bool
	Limit         int
}

// RunRepository records one row per reconciliation call.
type RunRepository interface {
	// Create persists a run.
	Create(ctx context.Context, run *RunRecord) error

	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]*RunRecord, error)
}

// RunRecord represents a reconciliation run as stored in persistence.
type RunRecord struct {
	ID           string
	Kind         string // evidence, demo, task, task_batch
	Success      bool
	Phase        string
	ErrorMessage string
	FactsBefore  int
	FactsAfter   int
	SkippedRows  int
	TotalTokens  int
	Persisted    bool
	CreatedAt    string
}

// StoreSeeder fills empty tables with built-in data.
type StoreSeeder interface {
	// SeedDefaults writes the built-in facts and guidelines into tables
	// that hold no rows, and reports what it wrote.
	SeedDefaults(ctx context.Context) (facts int, guidelines bool, err error)
}
