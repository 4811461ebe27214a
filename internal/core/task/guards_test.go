package task

import (
	"testing"
	"time"

	"github.com/example/factkeeper/internal/models"
)

func TestCanCreateTask(t *testing.T) {
	tests := []struct {
		name        string
		ctx         CreateTaskContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "can create task with title",
			ctx:         CreateTaskContext{Title: "Audit facts"},
			wantAllowed: true,
		},
		{
			name:        "cannot create task with blank title",
			ctx:         CreateTaskContext{Title: "   "},
			wantAllowed: false,
			wantReason:  "task title cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanCreateTask(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name        string
		ctx         StatusTransitionContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name: "pending to in_progress",
			ctx: StatusTransitionContext{
				TaskID: 1, TaskExists: true,
				Current: models.TaskStatusPending, Target: models.TaskStatusInProgress,
			},
			wantAllowed: true,
		},
		{
			name: "in_progress to completed",
			ctx: StatusTransitionContext{
				TaskID: 1, TaskExists: true,
				Current: models.TaskStatusInProgress, Target: models.TaskStatusCompleted,
			},
			wantAllowed: true,
		},
		{
			name: "pending directly to completed is allowed",
			ctx: StatusTransitionContext{
				TaskID: 1, TaskExists: true,
				Current: models.TaskStatusPending, Target: models.TaskStatusCompleted,
			},
			wantAllowed: true,
		},
		{
			name: "pending to cancelled",
			ctx: StatusTransitionContext{
				TaskID: 1, TaskExists: true,
				Current: models.TaskStatusPending, Target: models.TaskStatusCancelled,
			},
			wantAllowed: true,
		},
		{
			name: "completed is not locked",
			ctx: StatusTransitionContext{
				TaskID: 1, TaskExists: true,
				Current: models.TaskStatusCompleted, Target: models.TaskStatusCancelled,
			},
			wantAllowed: true,
		},
		{
			name: "unknown task",
			ctx: StatusTransitionContext{
				TaskID: 42, TaskExists: false, Target: models.TaskStatusInProgress,
			},
			wantAllowed: false,
			wantReason:  "task 42 not found",
		},
		{
			name: "unknown target status",
			ctx: StatusTransitionContext{
				TaskID: 1, TaskExists: true,
				Current: models.TaskStatusPending, Target: "paused",
			},
			wantAllowed: false,
			wantReason:  `unknown task status "paused"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanTransition(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanExecute(t *testing.T) {
	tests := []struct {
		name        string
		ctx         ExecuteTaskContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "pending automatable task",
			ctx:         ExecuteTaskContext{TaskID: 3, Status: models.TaskStatusPending},
			wantAllowed: true,
		},
		{
			name:        "in_progress task",
			ctx:         ExecuteTaskContext{TaskID: 3, Status: models.TaskStatusInProgress},
			wantAllowed: false,
			wantReason:  "can only execute pending tasks (task 3 status: in_progress)",
		},
		{
			name:        "human task",
			ctx:         ExecuteTaskContext{TaskID: 4, Status: models.TaskStatusPending, RequiresHuman: true},
			wantAllowed: false,
			wantReason:  "task 4 requires human input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanExecute(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestGuardResultError(t *testing.T) {
	if err := (GuardResult{Allowed: true}).Error(); err != nil {
		t.Errorf("Error() = %v, want nil", err)
	}
	if err := (GuardResult{Reason: "nope"}).Error(); err == nil || err.Error() != "nope" {
		t.Errorf("Error() = %v, want nope", err)
	}
}

func TestApplyStatusTransition(t *testing.T) {
	fixedTime := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)

	result := ApplyStatusTransition(models.TaskStatusCompleted, fixedTime)
	if result.NewStatus != models.TaskStatusCompleted {
		t.Errorf("NewStatus = %q, want completed", result.NewStatus)
	}
	if !result.UpdatedAt.Equal(fixedTime) {
		t.Errorf("UpdatedAt = %v, want %v", result.UpdatedAt, fixedTime)
	}
	if InitialStatus() != models.TaskStatusPending {
		t.Errorf("InitialStatus() = %q, want pending", InitialStatus())
	}
}
