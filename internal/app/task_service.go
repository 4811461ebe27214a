package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/factkeeper/internal/core/task"
	"github.com/example/factkeeper/internal/models"
	"github.com/example/factkeeper/internal/ports/primary"
	"github.com/example/factkeeper/internal/ports/secondary"
)

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskRepo secondary.TaskRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewTaskService creates a new TaskService with injected dependencies.
// A nil taskRepo leaves only Classify usable; every other call fails.
func NewTaskService(taskRepo secondary.TaskRepository, logger *zap.Logger) *TaskServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskServiceImpl{
		taskRepo: taskRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateTask classifies and stores a new pending task.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, title string) (*models.Task, error) {
	if s.taskRepo == nil {
		return nil, errNoTaskStore
	}
	title = strings.TrimSpace(title)
	if err := task.CanCreateTask(task.CreateTaskContext{Title: title}).Error(); err != nil {
		return nil, err
	}

	c := task.Classify(title)
	record := &secondary.TaskRecord{
		Title:         title,
		Status:        string(task.InitialStatus()),
		RequiresHuman: c.RequiresHuman,
	}
	if err := s.taskRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("Stored task",
		zap.Int64("task_id", record.ID),
		zap.Bool("requires_human", c.RequiresHuman),
		zap.String("rule", c.Rule),
		zap.String("keyword", c.Keyword),
	)
	return s.recordToTask(record), nil
}

// GetTask retrieves a task by ID.
func (s *TaskServiceImpl) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	if s.taskRepo == nil {
		return nil, errNoTaskStore
	}
	record, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.recordToTask(record), nil
}

// ListTasks lists tasks with optional filters, newest first.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*models.Task, error) {
	if s.taskRepo == nil {
		return nil, errNoTaskStore
	}
	if filters.Status != "" {
		if _, err := models.ParseTaskStatus(filters.Status); err != nil {
			return nil, err
		}
	}
	records, err := s.taskRepo.List(ctx, secondary.TaskFilters{
		Status:        filters.Status,
		RequiresHuman: filters.RequiresHuman,
		Limit:         filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return s.recordsToTasks(records), nil
}

// PendingTasks lists pending tasks.
func (s *TaskServiceImpl) PendingTasks(ctx context.Context) ([]*models.Task, error) {
	return s.ListTasks(ctx, primary.TaskFilters{Status: string(models.TaskStatusPending)})
}

// MarkInProgress moves a task to in_progress.
func (s *TaskServiceImpl) MarkInProgress(ctx context.Context, id int64) bool {
	return s.transition(ctx, id, models.TaskStatusInProgress)
}

// MarkCompleted moves a task to completed.
func (s *TaskServiceImpl) MarkCompleted(ctx context.Context, id int64) bool {
	return s.transition(ctx, id, models.TaskStatusCompleted)
}

// Cancel moves a task to cancelled.
func (s *TaskServiceImpl) Cancel(ctx context.Context, id int64) bool {
	return s.transition(ctx, id, models.TaskStatusCancelled)
}

// transition reports false instead of failing: unknown ids and store
// errors are logged.
func (s *TaskServiceImpl) transition(ctx context.Context, id int64, target models.TaskStatus) bool {
	if s.taskRepo == nil {
		s.logger.Error("Cannot update task", zap.Int64("task_id", id), zap.Error(errNoTaskStore))
		return false
	}
	record, err := s.taskRepo.GetByID(ctx, id)
	if err != nil && !errors.Is(err, secondary.ErrNotFound) {
		s.logger.Error("Failed to load task", zap.Int64("task_id", id), zap.Error(err))
		return false
	}

	guardCtx := task.StatusTransitionContext{
		TaskID:     id,
		TaskExists: record != nil,
		Target:     target,
	}
	if record != nil {
		guardCtx.Current = models.TaskStatus(record.Status)
	}
	if result := task.CanTransition(guardCtx); !result.Allowed {
		s.logger.Warn("Task transition rejected", zap.Int64("task_id", id), zap.String("reason", result.Reason))
		return false
	}

	applied := task.ApplyStatusTransition(target, s.now())
	if err := s.taskRepo.UpdateStatus(ctx, id, string(applied.NewStatus), applied.UpdatedAt); err != nil {
		s.logger.Error("Failed to update task status", zap.Int64("task_id", id), zap.Error(err))
		return false
	}

	s.logger.Info("Task status updated",
		zap.Int64("task_id", id),
		zap.String("from", string(guardCtx.Current)),
		zap.String("to", string(target)),
	)
	return true
}

// DeleteTask removes a task.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	if s.taskRepo == nil {
		return errNoTaskStore
	}
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Summary counts tasks by status and lists the pending ones.
func (s *TaskServiceImpl) Summary(ctx context.Context) (*primary.TaskSummary, error) {
	if s.taskRepo == nil {
		return nil, errNoTaskStore
	}
	counts, err := s.taskRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	summary := &primary.TaskSummary{ByStatus: make(map[models.TaskStatus]int, len(counts))}
	for status, n := range counts {
		summary.ByStatus[models.TaskStatus(status)] = n
		summary.Total += n
	}

	pending, err := s.PendingTasks(ctx)
	if err != nil {
		return nil, err
	}
	summary.Pending = pending
	return summary, nil
}

// Classify reports how a task title would be classified.
func (s *TaskServiceImpl) Classify(title string) task.Classification {
	return task.Classify(title)
}

// Helper methods

func (s *TaskServiceImpl) recordToTask(r *secondary.TaskRecord) *models.Task {
	return &models.Task{
		ID:            r.ID,
		Title:         r.Title,
		Status:        models.TaskStatus(r.Status),
		RequiresHuman: r.RequiresHuman,
		CreatedAt:     parseTimestamp(r.CreatedAt),
		UpdatedAt:     parseTimestamp(r.UpdatedAt),
	}
}

func (s *TaskServiceImpl) recordsToTasks(records []*secondary.TaskRecord) []*models.Task {
	tasks := make([]*models.Task, len(records))
	for i, r := range records {
		tasks[i] = s.recordToTask(r)
	}
	return tasks
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

var _ primary.TaskService = (*TaskServiceImpl)(nil)
