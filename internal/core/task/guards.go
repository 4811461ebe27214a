// Package task contains the pure business logic for maintenance tasks.
// Guards are pure functions that evaluate preconditions without side effects.
package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/factkeeper/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateTaskContext provides context for task creation guards.
type CreateTaskContext struct {
	Title string
}

// StatusTransitionContext provides context for status transition guards.
type StatusTransitionContext struct {
	TaskID     int64
	TaskExists bool
	Current    models.TaskStatus
	Target     models.TaskStatus
}

// ExecuteTaskContext provides context for the automated execution guard.
type ExecuteTaskContext struct {
	TaskID        int64
	Status        models.TaskStatus
	RequiresHuman bool
}

// CanCreateTask evaluates whether a task can be created.
// Rules:
// - Title must not be blank
func CanCreateTask(ctx CreateTaskContext) GuardResult {
	if strings.TrimSpace(ctx.Title) == "" {
		return GuardResult{Allowed: false, Reason: "task title cannot be empty"}
	}
	return GuardResult{Allowed: true}
}

// CanTransition evaluates whether a task may move to the target status.
// Rules:
// - Task must exist
// - Target must be a known status
//
// The lifecycle is pending -> in_progress -> completed, with cancel from
// pending or in_progress. Nothing stronger is enforced: pending -> completed
// is allowed and terminal states are not locked.
func CanTransition(ctx StatusTransitionContext) GuardResult {
	if !ctx.TaskExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("task %d not found", ctx.TaskID),
		}
	}

	if !ctx.Target.Valid() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("unknown task status %q", ctx.Target),
		}
	}

	return GuardResult{Allowed: true}
}

// CanExecute evaluates whether an executor may pick up a task.
// Rules:
// - Status must be "pending"
// - Task must not require a human
func CanExecute(ctx ExecuteTaskContext) GuardResult {
	if ctx.Status != models.TaskStatusPending {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only execute pending tasks (task %d status: %s)", ctx.TaskID, ctx.Status),
		}
	}

	if ctx.RequiresHuman {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("task %d requires human input", ctx.TaskID),
		}
	}

	return GuardResult{Allowed: true}
}

// StatusTransitionResult captures the new status and its timestamp.
type StatusTransitionResult struct {
	NewStatus models.TaskStatus
	UpdatedAt time.Time
}

// ApplyStatusTransition returns the result of moving to newStatus at now.
// The caller passes the time to keep this testable.
func ApplyStatusTransition(newStatus models.TaskStatus, now time.Time) StatusTransitionResult {
	return StatusTransitionResult{NewStatus: newStatus, UpdatedAt: now}
}

// InitialStatus returns the status of a newly created task.
func InitialStatus() models.TaskStatus {
	return models.TaskStatusPending
}
