package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/factkeeper/internal/models"
	"github.com/example/factkeeper/internal/ports/primary"
)

// TaskAdapter translates CLI operations to TaskService and
// TaskGenerationService calls.
type TaskAdapter struct {
	tasks     primary.TaskService
	generator primary.TaskGenerationService
	out       io.Writer
	showLog   bool
}

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(tasks primary.TaskService, generator primary.TaskGenerationService, out io.Writer, showLog bool) *TaskAdapter {
	return &TaskAdapter{tasks: tasks, generator: generator, out: out, showLog: showLog}
}

// List lists tasks with optional filters.
func (a *TaskAdapter) List(ctx context.Context, filters primary.TaskFilters) error {
	tasks, err := a.tasks.ListTasks(ctx, filters)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-6s %-12s %-10s %s\n", "ID", "STATUS", "HANDLER", "TITLE")
	fmt.Fprintln(a.out, rule)
	for _, t := range tasks {
		fmt.Fprintf(a.out, "%-6d %s %-10s %s\n", t.ID, statusLabel(t.Status), handler(t.RequiresHuman), t.Title)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Create classifies and stores a task.
func (a *TaskAdapter) Create(ctx context.Context, title string) error {
	t, err := a.tasks.CreateTask(ctx, title)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Created task %d: %s (%s)\n", okMark, t.ID, t.Title, handler(t.RequiresHuman))
	return nil
}

// Generate asks the oracle for new tasks and stores them.
func (a *TaskAdapter) Generate(ctx context.Context) error {
	summary := a.generator.GenerateTasks(ctx)
	if !summary.Success {
		fmt.Fprintf(a.out, "%s Task generation failed: %s\n", failMark, summary.ErrorMessage)
		if a.showLog {
			printLog(a.out, summary.ProcessingLog)
		}
		return failed("task generation failed")
	}

	fmt.Fprintf(a.out, "%s Generated %d tasks, stored %d\n", okMark, summary.Generated, summary.Stored)
	for _, t := range summary.Tasks {
		fmt.Fprintf(a.out, "  #%d %s %s\n", t.ID, t.Title, dim("("+handler(t.RequiresHuman)+")"))
	}
	if a.showLog {
		printLog(a.out, summary.ProcessingLog)
	}
	return nil
}

// Classify prints how a title would be classified.
func (a *TaskAdapter) Classify(title string) error {
	c := a.tasks.Classify(title)
	fmt.Fprintf(a.out, "%s\n", bold(handler(c.RequiresHuman)))
	fmt.Fprintf(a.out, "  rule:    %s\n", c.Rule)
	if c.Keyword != "" {
		fmt.Fprintf(a.out, "  keyword: %q\n", c.Keyword)
	}
	return nil
}

// Start marks a task in progress.
func (a *TaskAdapter) Start(ctx context.Context, id int64) error {
	return a.transition(id, a.tasks.MarkInProgress(ctx, id), models.TaskStatusInProgress)
}

// Complete marks a task completed.
func (a *TaskAdapter) Complete(ctx context.Context, id int64) error {
	return a.transition(id, a.tasks.MarkCompleted(ctx, id), models.TaskStatusCompleted)
}

// Cancel marks a task cancelled.
func (a *TaskAdapter) Cancel(ctx context.Context, id int64) error {
	return a.transition(id, a.tasks.Cancel(ctx, id), models.TaskStatusCancelled)
}

func (a *TaskAdapter) transition(id int64, ok bool, status models.TaskStatus) error {
	if !ok {
		return fmt.Errorf("task %d could not be moved to %s", id, status)
	}
	fmt.Fprintf(a.out, "%s Task %d is now %s\n", okMark, id, status)
	return nil
}

// Summary prints task counts by status and the pending tasks.
func (a *TaskAdapter) Summary(ctx context.Context) error {
	summary, err := a.tasks.Summary(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Tasks: %d\n", summary.Total)
	for _, status := range models.TaskStatuses {
		fmt.Fprintf(a.out, "  %-12s %d\n", status, summary.ByStatus[status])
	}
	if len(summary.Pending) == 0 {
		return nil
	}

	fmt.Fprintln(a.out, "\nPending:")
	for _, t := range summary.Pending {
		fmt.Fprintf(a.out, "  #%d %s %s\n", t.ID, t.Title, dim("("+handler(t.RequiresHuman)+")"))
	}
	return nil
}

func handler(requiresHuman bool) string {
	if requiresHuman {
		return "human"
	}
	return "automated"
}

func statusLabel(status models.TaskStatus) string {
	label := fmt.Sprintf("%-12s", status)
	switch status {
	case models.TaskStatusPending:
		return color.New(color.FgYellow).Sprint(label)
	case models.TaskStatusInProgress:
		return color.New(color.FgBlue).Sprint(label)
	case models.TaskStatusCompleted:
		return color.New(color.FgGreen).Sprint(label)
	default:
		return dim(label)
	}
}
