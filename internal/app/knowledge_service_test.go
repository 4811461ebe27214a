package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/factkeeper/internal/defaults"
	"github.com/example/factkeeper/internal/models"
)

type mockSeeder struct {
	facts      int
	guidelines bool
	err        error
	calls      int
}

func (m *mockSeeder) SeedDefaults(ctx context.Context) (int, bool, error) {
	m.calls++
	return m.facts, m.guidelines, m.err
}

func newTestKnowledgeService(facts *mockFactRepo, guidelines *mockGuidelineRepo, seeder *mockSeeder) *KnowledgeServiceImpl {
	resolver := NewResolver(facts, guidelines, nil, nil, nil)
	return NewKnowledgeService(resolver, facts, guidelines, seeder, newTestLogger())
}

func TestKnowledgeService_Views(t *testing.T) {
	facts := newMockFactRepo(models.Fact{Number: 3, Description: "three", LastValidated: "2025-01-01"})
	svc := newTestKnowledgeService(facts, &mockGuidelineRepo{}, &mockSeeder{})
	ctx := context.Background()

	view := svc.KnowledgeBase(ctx)
	assert.Equal(t, SourceRemote, view.Source)
	assert.Equal(t, []int{3}, view.KnowledgeBase.Numbers())
	assert.Empty(t, view.Skipped)

	gv := svc.Guidelines(ctx)
	assert.Equal(t, SourceDefault, gv.Source)
	assert.Equal(t, defaults.Guidelines, gv.Content)
	require.Len(t, gv.Skipped, 2)
	assert.Equal(t, "remote: empty result", gv.Skipped[0])
	assert.Equal(t, "local: backend not configured", gv.Skipped[1])
}

func TestKnowledgeService_ReplaceFacts(t *testing.T) {
	facts := newMockFactRepo(models.Fact{Number: 1, Description: "old", LastValidated: "2025-01-01"})
	svc := newTestKnowledgeService(facts, &mockGuidelineRepo{}, nil)
	ctx := context.Background()

	n, err := svc.ReplaceFacts(ctx, []models.Fact{
		{Number: 7, Description: "seven", LastValidated: "2025-02-01"},
		{Number: 9, Description: "nine", LastValidated: "2025-02-01"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stored, _ := facts.List(ctx)
	require.Len(t, stored, 2)
	assert.Equal(t, 7, stored[0].Number)

	_, err = svc.ReplaceFacts(ctx, nil)
	assert.Error(t, err)

	_, err = svc.ReplaceFacts(ctx, []models.Fact{{Number: 1, Description: "a"}, {Number: 1, Description: "b"}})
	assert.ErrorContains(t, err, "duplicate")
}

func TestKnowledgeService_NoStore(t *testing.T) {
	svc := NewKnowledgeService(NewResolver(nil, nil, nil, nil, nil), nil, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.ReplaceFacts(ctx, []models.Fact{{Number: 1, Description: "x"}})
	assert.ErrorIs(t, err, errNoStore)
	assert.ErrorIs(t, svc.SetGuidelines(ctx, "text"), errNoStore)
	_, err = svc.Seed(ctx)
	assert.ErrorIs(t, err, errNoStore)

	assert.Equal(t, SourceDefault, svc.KnowledgeBase(ctx).Source)
}

func TestKnowledgeService_SetGuidelines(t *testing.T) {
	repo := &mockGuidelineRepo{}
	svc := newTestKnowledgeService(newMockFactRepo(), repo, nil)
	ctx := context.Background()

	require.NoError(t, svc.SetGuidelines(ctx, "Prefer numbers."))
	assert.Equal(t, "Prefer numbers.", repo.content)
	assert.Error(t, svc.SetGuidelines(ctx, "   "))

	repo.err = errors.New("read-only database")
	assert.ErrorContains(t, svc.SetGuidelines(ctx, "x"), "read-only")
}

func TestKnowledgeService_Seed(t *testing.T) {
	seeder := &mockSeeder{facts: 10, guidelines: true}
	svc := newTestKnowledgeService(newMockFactRepo(), &mockGuidelineRepo{}, seeder)

	res, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, res.Facts)
	assert.True(t, res.Guidelines)

	seeder.err = errors.New("locked")
	_, err = svc.Seed(context.Background())
	assert.ErrorContains(t, err, "locked")
}
