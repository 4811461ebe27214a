package primary

import (
	"context"

	"github.com/example/factkeeper/internal/core/task"
	"github.com/example/factkeeper/internal/models"
)

// TaskService defines the primary port for task operations.
// Status transitions report false for unknown ids instead of failing.
type TaskService interface {
	// CreateTask classifies and stores a new pending task.
	CreateTask(ctx context.Context, title string) (*models.Task, error)

	// GetTask retrieves a task by ID.
	GetTask(ctx context.Context, id int64) (*models.Task, error)

	// ListTasks lists tasks with optional filters, newest first.
	ListTasks(ctx context.Context, filters TaskFilters) ([]*models.Task, error)

	// PendingTasks lists pending tasks.
	PendingTasks(ctx context.Context) ([]*models.Task, error)

	// MarkInProgress moves a task to in_progress.
	MarkInProgress(ctx context.Context, id int64) bool

	// MarkCompleted moves a task to completed.
	MarkCompleted(ctx context.Context, id int64) bool

	// Cancel moves a task to cancelled.
	Cancel(ctx context.Context, id int64) bool

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id int64) error

	// Summary counts tasks by status.
	Summary(ctx context.Context) (*TaskSummary, error)

	// Classify reports how a task title would be classified.
	Classify(title string) task.Classification
}

// TaskFilters contains filter options for listing tasks.
type TaskFilters struct {
	Status        string
	RequiresHuman *bool
	Limit         int
}

// TaskSummary counts tasks by status and lists the pending ones.
type TaskSummary struct {
	Total    int
	ByStatus map[models.TaskStatus]int
	Pending  []*models.Task
}

// TaskGenerationService defines the primary port for oracle-driven task
// generation.
type TaskGenerationService interface {
	GenerateTasks(ctx context.Context) *GenerationSummary
}

// GenerationSummary is the outcome of one generation call.
type GenerationSummary struct {
	Success       bool
	ErrorMessage  string
	Generated     int
	Stored        int
	Tasks         []*models.Task
	Usage         models.TokenUsage
	ProcessingLog string
}
