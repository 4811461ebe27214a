package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/factkeeper/internal/core/oracle"
	"github.com/example/factkeeper/internal/core/prompt"
	"github.com/example/factkeeper/internal/logging"
	"github.com/example/factkeeper/internal/ports/primary"
	"github.com/example/factkeeper/internal/ports/secondary"
)

// TaskGenerationServiceImpl asks the oracle for new maintenance tasks and
// stores them through the task service.
type TaskGenerationServiceImpl struct {
	resolver *Resolver
	oracle   secondary.Oracle
	taskRepo secondary.TaskRepository
	model    string
	logger   *zap.Logger
}

// NewTaskGenerationService creates a new TaskGenerationService.
func NewTaskGenerationService(
	resolver *Resolver,
	oracleClient secondary.Oracle,
	taskRepo secondary.TaskRepository,
	model string,
	logger *zap.Logger,
) *TaskGenerationServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskGenerationServiceImpl{
		resolver: resolver,
		oracle:   oracleClient,
		taskRepo: taskRepo,
		model:    model,
		logger:   logger,
	}
}

// GenerateTasks runs one generation call. An empty list from the oracle
// is a success with nothing stored.
func (s *TaskGenerationServiceImpl) GenerateTasks(ctx context.Context) *primary.GenerationSummary {
	logger, rec := logging.Tee(s.logger)
	summary := &primary.GenerationSummary{}
	defer func() { summary.ProcessingLog = rec.Summary() }()

	failf := func(format string, args ...any) *primary.GenerationSummary {
		summary.ErrorMessage = fmt.Sprintf(format, args...)
		logger.Error("Task generation failed", zap.String("reason", summary.ErrorMessage))
		return summary
	}

	if s.taskRepo == nil {
		return failf("%v", errNoTaskStore)
	}
	if s.oracle == nil {
		return failf("oracle not configured")
	}

	resolver := s.resolver.WithLogger(logger)
	current := resolver.ResolveKnowledgeBase(ctx).Value
	guidelines := resolver.ResolveGuidelines(ctx).Value

	existing, err := s.taskRepo.List(ctx, secondary.TaskFilters{})
	if err != nil {
		return failf("failed to load existing tasks: %v", err)
	}
	titles := make([]string, len(existing))
	for i, t := range existing {
		titles[i] = t.Title
	}
	logger.Info("Loaded data for task generation",
		zap.Int("facts_count", len(current.Facts)),
		zap.Int("guidelines_length", len(guidelines)),
		zap.Int("existing_tasks_count", len(titles)),
	)

	req := oracle.NewRequest(s.model, prompt.GeneratorSystemInstruction,
		prompt.BuildTaskGenerationRequest(current, guidelines, titles), oracle.GenerationMaxTokens)
	resp, err := s.oracle.Generate(ctx, req)
	if err != nil {
		return failf("oracle call failed: %v", err)
	}
	summary.Usage = resp.Usage

	generated, err := prompt.ParseTaskList(resp.Text)
	if err != nil {
		return failf("%v", err)
	}
	summary.Generated = len(generated)
	if len(generated) == 0 {
		summary.Success = true
		logger.Warn("No valid tasks generated from oracle reply")
		return summary
	}

	tasks := NewTaskService(s.taskRepo, logger)
	for _, title := range generated {
		t, err := tasks.CreateTask(ctx, title)
		if err != nil {
			logger.Warn("Failed to store task", zap.String("title", title), zap.Error(err))
			continue
		}
		summary.Stored++
		summary.Tasks = append(summary.Tasks, t)
	}

	summary.Success = true
	logger.Info(fmt.Sprintf("Task generation complete: %d generated, %d stored", summary.Generated, summary.Stored))
	return summary
}

var _ primary.TaskGenerationService = (*TaskGenerationServiceImpl)(nil)
