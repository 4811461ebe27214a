package cli

import (
	"context"

	"github.com/example/factkeeper/internal/core/task"
	"github.com/example/factkeeper/internal/models"
	"github.com/example/factkeeper/internal/ports/primary"
)

// mockReconcileService implements primary.ReconcileService for testing.
type mockReconcileService struct {
	result    *primary.ReconcileResult
	summary   *primary.ExecutionSummary
	runs      []*primary.Run
	historyFn func(ctx context.Context, limit int) ([]*primary.Run, error)

	lastReq   primary.ReconcileRequest
	batchCall bool
}

func (m *mockReconcileService) Reconcile(ctx context.Context, req primary.ReconcileRequest) *primary.ReconcileResult {
	m.lastReq = req
	return m.result
}

func (m *mockReconcileService) ReconcileDemo(ctx context.Context) *primary.ReconcileResult {
	return m.result
}

func (m *mockReconcileService) ExecuteTasks(ctx context.Context) *primary.ExecutionSummary {
	return m.summary
}

func (m *mockReconcileService) ExecuteTaskBatch(ctx context.Context) *primary.ExecutionSummary {
	m.batchCall = true
	return m.summary
}

func (m *mockReconcileService) History(ctx context.Context, limit int) ([]*primary.Run, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, limit)
	}
	return m.runs, nil
}

// mockKnowledgeService implements primary.KnowledgeService for testing.
type mockKnowledgeService struct {
	view       *primary.KnowledgeView
	guidelines *primary.GuidelinesView
	replaceErr error
	setErr     error
	seed       *primary.SeedResult
	seedErr    error

	replaced []models.Fact
	setTo    string
}

func (m *mockKnowledgeService) KnowledgeBase(ctx context.Context) *primary.KnowledgeView {
	return m.view
}

func (m *mockKnowledgeService) Guidelines(ctx context.Context) *primary.GuidelinesView {
	return m.guidelines
}

func (m *mockKnowledgeService) ReplaceFacts(ctx context.Context, facts []models.Fact) (int, error) {
	if m.replaceErr != nil {
		return 0, m.replaceErr
	}
	m.replaced = facts
	return len(facts), nil
}

func (m *mockKnowledgeService) SetGuidelines(ctx context.Context, content string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.setTo = content
	return nil
}

func (m *mockKnowledgeService) Seed(ctx context.Context) (*primary.SeedResult, error) {
	return m.seed, m.seedErr
}

// mockTaskService implements primary.TaskService for testing.
type mockTaskService struct {
	tasks        []*models.Task
	listErr      error
	transitionOK bool
	summary      *primary.TaskSummary

	lastFilters primary.TaskFilters
}

func (m *mockTaskService) CreateTask(ctx context.Context, title string) (*models.Task, error) {
	return &models.Task{ID: 42, Title: title, Status: models.TaskStatusPending, RequiresHuman: task.Classify(title).RequiresHuman}, nil
}

func (m *mockTaskService) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	return nil, nil
}

func (m *mockTaskService) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*models.Task, error) {
	m.lastFilters = filters
	return m.tasks, m.listErr
}

func (m *mockTaskService) PendingTasks(ctx context.Context) ([]*models.Task, error) {
	return m.tasks, m.listErr
}

func (m *mockTaskService) MarkInProgress(ctx context.Context, id int64) bool { return m.transitionOK }
func (m *mockTaskService) MarkCompleted(ctx context.Context, id int64) bool  { return m.transitionOK }
func (m *mockTaskService) Cancel(ctx context.Context, id int64) bool         { return m.transitionOK }

func (m *mockTaskService) DeleteTask(ctx context.Context, id int64) error { return nil }

func (m *mockTaskService) Summary(ctx context.Context) (*primary.TaskSummary, error) {
	return m.summary, nil
}

func (m *mockTaskService) Classify(title string) task.Classification {
	return task.Classify(title)
}

// mockGenerationService implements primary.TaskGenerationService for testing.
type mockGenerationService struct {
	summary *primary.GenerationSummary
}

func (m *mockGenerationService) GenerateTasks(ctx context.Context) *primary.GenerationSummary {
	return m.summary
}

// mockHealthService implements primary.HealthService for testing.
type mockHealthService struct {
	report *primary.HealthReport
}

func (m *mockHealthService) Check(ctx context.Context) *primary.HealthReport {
	return m.report
}

var (
	_ primary.ReconcileService      = (*mockReconcileService)(nil)
	_ primary.KnowledgeService      = (*mockKnowledgeService)(nil)
	_ primary.TaskService           = (*mockTaskService)(nil)
	_ primary.TaskGenerationService = (*mockGenerationService)(nil)
	_ primary.HealthService         = (*mockHealthService)(nil)
)
