package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/factkeeper/internal/core/oracle"
	"github.com/example/factkeeper/internal/core/prompt"
	"github.com/example/factkeeper/internal/models"
)

func newTestGenerationService(replies ...string) (*TaskGenerationServiceImpl, *mockTaskRepo, *mockOracle) {
	tasks := newMockTaskRepo()
	oc := &mockOracle{replies: replies}
	facts := newMockFactRepo(models.Fact{Number: 1, Description: "Coverage is 60%", LastValidated: "2024-01-01"})
	resolver := NewResolver(facts, &mockGuidelineRepo{content: "Keep facts short."}, nil, nil, nil)
	return NewTaskGenerationService(resolver, oc, tasks, "gpt-4o", newTestLogger()), tasks, oc
}

func TestGenerateTasks_StoresClassified(t *testing.T) {
	svc, tasks, oc := newTestGenerationService("```json\n" +
		`["Update validation dates for stale facts", "Confirm coverage target with stakeholder", "  "]` +
		"\n```")
	tasks.add("Archive old data", false)

	summary := svc.GenerateTasks(context.Background())

	require.True(t, summary.Success, summary.ErrorMessage)
	assert.Equal(t, 2, summary.Generated)
	assert.Equal(t, 2, summary.Stored)
	require.Len(t, summary.Tasks, 2)
	assert.False(t, summary.Tasks[0].RequiresHuman)
	assert.True(t, summary.Tasks[1].RequiresHuman)
	assert.Len(t, tasks.tasks, 3)

	req := oc.requests[0]
	assert.Equal(t, oracle.GenerationMaxTokens, req.MaxOutputTokens)
	assert.Equal(t, prompt.GeneratorSystemInstruction, req.Messages[0].Content)
	userPrompt := oc.lastUserPrompt()
	assert.Contains(t, userPrompt, "Archive old data")
	assert.Contains(t, userPrompt, "Coverage is 60%")
	assert.Contains(t, userPrompt, "Keep facts short.")
}

func TestGenerateTasks_EmptyListIsSuccess(t *testing.T) {
	svc, tasks, _ := newTestGenerationService("[]")

	summary := svc.GenerateTasks(context.Background())

	assert.True(t, summary.Success)
	assert.Zero(t, summary.Generated)
	assert.Empty(t, tasks.tasks)
}

func TestGenerateTasks_Failures(t *testing.T) {
	t.Run("unparseable reply", func(t *testing.T) {
		svc, tasks, _ := newTestGenerationService("Here are some ideas: update facts")
		summary := svc.GenerateTasks(context.Background())
		assert.False(t, summary.Success)
		assert.Contains(t, summary.ErrorMessage, "not a JSON array")
		assert.Empty(t, tasks.tasks)
	})

	t.Run("oracle error", func(t *testing.T) {
		svc, _, oc := newTestGenerationService()
		oc.err = errOracleDown
		summary := svc.GenerateTasks(context.Background())
		assert.False(t, summary.Success)
		assert.Contains(t, summary.ErrorMessage, "oracle call failed")
		assert.Contains(t, summary.ProcessingLog, "Task generation failed")
	})

	t.Run("task list unavailable", func(t *testing.T) {
		svc, tasks, oc := newTestGenerationService("[]")
		tasks.listErr = errors.New("no such table: tasks")
		summary := svc.GenerateTasks(context.Background())
		assert.False(t, summary.Success)
		assert.Empty(t, oc.requests)
	})

	t.Run("no task store", func(t *testing.T) {
		svc := NewTaskGenerationService(NewResolver(nil, nil, nil, nil, nil), &mockOracle{}, nil, "gpt-4o", nil)
		summary := svc.GenerateTasks(context.Background())
		assert.False(t, summary.Success)
		assert.Equal(t, "task store not configured", summary.ErrorMessage)
	})
}

func TestGenerateTasks_PartialStoreFailure(t *testing.T) {
	svc, tasks, _ := newTestGenerationService(`["Update facts"]`)
	tasks.createErr = errors.New("disk full")

	summary := svc.GenerateTasks(context.Background())

	assert.True(t, summary.Success)
	assert.Equal(t, 1, summary.Generated)
	assert.Zero(t, summary.Stored)
}
