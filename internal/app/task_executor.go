package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/factkeeper/internal/core/task"
	"github.com/example/factkeeper/internal/logging"
	"github.com/example/factkeeper/internal/models"
	"github.com/example/factkeeper/internal/ports/primary"
	"github.com/example/factkeeper/internal/ports/secondary"
)

var errNoTaskStore = errors.New("task store not configured")

// ExecuteTasks runs one reconciliation per pending automatable task, oldest
// first. Each run reloads the knowledge base, so updates accumulate. A task
// is deleted only after the knowledge base that incorporates it was saved;
// a failed delete leaves it pending for the next run.
func (s *ReconcileServiceImpl) ExecuteTasks(ctx context.Context) *primary.ExecutionSummary {
	logger, rec := logging.Tee(s.logger.With(zap.String("mode", ModePerTask)))
	summary := &primary.ExecutionSummary{Mode: ModePerTask}
	defer func() { summary.ProcessingLog = rec.Summary() }()

	tasks, err := s.executableTasks(ctx, logger)
	if err != nil {
		summary.ErrorMessage = err.Error()
		logger.Error("Failed to load automated tasks", zap.Error(err))
		return summary
	}
	summary.Considered = len(tasks)
	if len(tasks) == 0 {
		summary.Success = true
		summary.Message = "No automated tasks to execute"
		logger.Info(summary.Message)
		return summary
	}

	logger.Info(fmt.Sprintf("Found %d automated tasks to execute", len(tasks)))
	for i, t := range tasks {
		if err := ctx.Err(); err != nil {
			logger.Warn("Task execution interrupted", zap.Error(err))
			break
		}
		logger.Info(fmt.Sprintf("Executing task %d/%d", i+1, len(tasks)), zap.Int64("task_id", t.ID), zap.String("title", t.Title))

		res := s.run(ctx, call{kind: RunKindTask, tasks: []string{t.Title}, persist: true})
		exec := primary.TaskExecution{TaskID: t.ID, Title: t.Title, RunID: res.RunID}
		summary.Usage = summary.Usage.Add(res.Usage)

		switch {
		case !res.Success:
			exec.ErrorMessage = res.ErrorMessage
			logger.Error("Task execution failed", zap.Int64("task_id", t.ID), zap.String("reason", res.ErrorMessage))
		case !res.Persisted:
			exec.ErrorMessage = "knowledge base was not saved"
			logger.Error("Task left pending; knowledge base was not saved", zap.Int64("task_id", t.ID))
		default:
			exec.Success = true
			exec.Deleted = s.deleteTask(ctx, logger, t.ID)
			if exec.Deleted {
				summary.Completed++
			}
		}
		summary.Tasks = append(summary.Tasks, exec)
	}

	summary.Success = true
	summary.Message = fmt.Sprintf("Successfully executed %d of %d automated tasks", summary.Completed, len(tasks))
	logger.Info(summary.Message)
	return summary
}

// ExecuteTaskBatch runs one reconciliation listing every pending
// automatable task, then deletes them all once the result is saved.
func (s *ReconcileServiceImpl) ExecuteTaskBatch(ctx context.Context) *primary.ExecutionSummary {
	logger, rec := logging.Tee(s.logger.With(zap.String("mode", ModeBatch)))
	summary := &primary.ExecutionSummary{Mode: ModeBatch}
	defer func() { summary.ProcessingLog = rec.Summary() }()

	tasks, err := s.executableTasks(ctx, logger)
	if err != nil {
		summary.ErrorMessage = err.Error()
		logger.Error("Failed to load automated tasks", zap.Error(err))
		return summary
	}
	summary.Considered = len(tasks)
	if len(tasks) == 0 {
		summary.Success = true
		summary.Message = "No automated tasks to execute"
		logger.Info(summary.Message)
		return summary
	}

	titles := make([]string, len(tasks))
	for i, t := range tasks {
		titles[i] = t.Title
	}
	logger.Info(fmt.Sprintf("Executing %d automated tasks in one batch", len(tasks)))

	res := s.run(ctx, call{kind: RunKindTaskBatch, tasks: titles, persist: true})
	summary.Usage = res.Usage

	if !res.Success || !res.Persisted {
		reason := res.ErrorMessage
		if res.Success {
			reason = "knowledge base was not saved"
		}
		summary.ErrorMessage = reason
		for _, t := range tasks {
			summary.Tasks = append(summary.Tasks, primary.TaskExecution{
				TaskID: t.ID, Title: t.Title, RunID: res.RunID, ErrorMessage: reason,
			})
		}
		logger.Error("Batch execution failed; tasks left pending", zap.String("reason", reason))
		return summary
	}

	for _, t := range tasks {
		exec := primary.TaskExecution{TaskID: t.ID, Title: t.Title, RunID: res.RunID, Success: true}
		exec.Deleted = s.deleteTask(ctx, logger, t.ID)
		if exec.Deleted {
			summary.Completed++
		}
		summary.Tasks = append(summary.Tasks, exec)
	}

	summary.Success = true
	summary.Message = fmt.Sprintf("Successfully executed %d of %d automated tasks", summary.Completed, len(tasks))
	logger.Info(summary.Message)
	return summary
}

// executableTasks lists pending automatable tasks, oldest first.
func (s *ReconcileServiceImpl) executableTasks(ctx context.Context, logger *zap.Logger) ([]*secondary.TaskRecord, error) {
	if s.taskRepo == nil {
		return nil, errNoTaskStore
	}
	automated := false
	records, err := s.taskRepo.List(ctx, secondary.TaskFilters{
		Status:        string(models.TaskStatusPending),
		RequiresHuman: &automated,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var out []*secondary.TaskRecord
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		guard := task.CanExecute(task.ExecuteTaskContext{
			TaskID:        r.ID,
			Status:        models.TaskStatus(r.Status),
			RequiresHuman: r.RequiresHuman,
		})
		if !guard.Allowed {
			logger.Debug("Skipping task", zap.Int64("task_id", r.ID), zap.String("reason", guard.Reason))
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *ReconcileServiceImpl) deleteTask(ctx context.Context, logger *zap.Logger, id int64) bool {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		logger.Warn("Failed to delete completed task", zap.Int64("task_id", id), zap.Error(err))
		return false
	}
	logger.Info("Task completed and removed", zap.Int64("task_id", id))
	return true
}
