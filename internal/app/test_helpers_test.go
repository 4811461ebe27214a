package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/factkeeper/internal/models"
	"github.com/example/factkeeper/internal/ports/secondary"
)

// Ensure mocks implement their interfaces
var (
	_ secondary.FactRepository      = (*mockFactRepo)(nil)
	_ secondary.GuidelineRepository = (*mockGuidelineRepo)(nil)
	_ secondary.TaskRepository      = (*mockTaskRepo)(nil)
	_ secondary.RunRepository       = (*mockRunRepo)(nil)
	_ secondary.FactSnapshot        = (*mockFactSnapshot)(nil)
	_ secondary.GuidelineSnapshot   = (*mockGuidelineSnapshot)(nil)
	_ secondary.Oracle              = (*mockOracle)(nil)
)

// mockFactRepo implements secondary.FactRepository in memory.
type mockFactRepo struct {
	mu        sync.Mutex
	facts     map[int]*secondary.FactRecord
	listErr   error
	upsertErr error
	countErr  error
	upserts   int
}

func newMockFactRepo(facts ...models.Fact) *mockFactRepo {
	m := &mockFactRepo{facts: make(map[int]*secondary.FactRecord)}
	for _, f := range facts {
		m.facts[f.Number] = &secondary.FactRecord{Number: f.Number, Description: f.Description, LastValidated: f.LastValidated}
	}
	return m
}

func (m *mockFactRepo) List(ctx context.Context) ([]*secondary.FactRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []*secondary.FactRecord{}
	for _, f := range m.facts {
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *mockFactRepo) Upsert(ctx context.Context, rows []*secondary.FactRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	for _, r := range rows {
		cp := *r
		m.facts[r.Number] = &cp
	}
	return nil
}

func (m *mockFactRepo) ReplaceAll(ctx context.Context, rows []*secondary.FactRecord) error {
	m.mu.Lock()
	m.facts = make(map[int]*secondary.FactRecord)
	m.mu.Unlock()
	return m.Upsert(ctx, rows)
}

func (m *mockFactRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.facts), nil
}

// mockGuidelineRepo implements secondary.GuidelineRepository.
type mockGuidelineRepo struct {
	content string
	err     error
}

func (m *mockGuidelineRepo) Get(ctx context.Context) (string, error) {
	return m.content, m.err
}

func (m *mockGuidelineRepo) Set(ctx context.Context, content string) error {
	if m.err != nil {
		return m.err
	}
	m.content = content
	return nil
}

// mockFactSnapshot implements secondary.FactSnapshot.
type mockFactSnapshot struct {
	facts []models.Fact
	err   error
}

func (m *mockFactSnapshot) LoadFacts(ctx context.Context) ([]models.Fact, error) {
	return m.facts, m.err
}

// mockGuidelineSnapshot implements secondary.GuidelineSnapshot.
type mockGuidelineSnapshot struct {
	content string
	err     error
}

func (m *mockGuidelineSnapshot) LoadGuidelines(ctx context.Context) (string, error) {
	return m.content, m.err
}

// mockTaskRepo implements secondary.TaskRepository in memory.
type mockTaskRepo struct {
	mu        sync.Mutex
	tasks     map[int64]*secondary.TaskRecord
	nextID    int64
	clock     time.Time
	createErr error
	listErr   error
	deleteErr map[int64]error
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{
		tasks:     make(map[int64]*secondary.TaskRecord),
		nextID:    1,
		clock:     time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		deleteErr: make(map[int64]error),
	}
}

func (m *mockTaskRepo) add(title string, requiresHuman bool) int64 {
	rec := &secondary.TaskRecord{Title: title, RequiresHuman: requiresHuman}
	_ = m.Create(context.Background(), rec)
	return rec.ID
}

func (m *mockTaskRepo) Create(ctx context.Context, task *secondary.TaskRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if task.Status == "" {
		task.Status = "pending"
	}
	task.ID = m.nextID
	m.nextID++
	m.clock = m.clock.Add(time.Minute)
	task.CreatedAt = m.clock.Format(time.RFC3339)
	task.UpdatedAt = task.CreatedAt
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id int64) (*secondary.TaskRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockTaskRepo) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.TaskRecord
	for _, t := range m.tasks {
		if filters.Status != "" && t.Status != filters.Status {
			continue
		}
		if filters.RequiresHuman != nil && t.RequiresHuman != *filters.RequiresHuman {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (m *mockTaskRepo) UpdateStatus(ctx context.Context, id int64, status string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return secondary.ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.deleteErr[id]; err != nil {
		return err
	}
	if _, ok := m.tasks[id]; !ok {
		return secondary.ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, t := range m.tasks {
		counts[t.Status]++
	}
	return counts, nil
}

// mockRunRepo implements secondary.RunRepository.
type mockRunRepo struct {
	mu   sync.Mutex
	runs []*secondary.RunRecord
	err  error
}

func (m *mockRunRepo) Create(ctx context.Context, run *secondary.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockRunRepo) List(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*secondary.RunRecord, 0, len(m.runs))
	for i := len(m.runs) - 1; i >= 0; i-- {
		out = append(out, m.runs[i])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// mockOracle replays canned replies in order and records every request.
type mockOracle struct {
	mu       sync.Mutex
	replies  []string
	err      error
	usage    models.TokenUsage
	requests []models.OracleRequest
}

var errOracleDown = errors.New("connection refused")

func (m *mockOracle) Generate(ctx context.Context, req models.OracleRequest) (*models.OracleResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	reply := ""
	if len(m.replies) > 0 {
		reply = m.replies[0]
		if len(m.replies) > 1 {
			m.replies = m.replies[1:]
		}
	}
	return &models.OracleResponse{Text: reply, Usage: m.usage}, nil
}

func (m *mockOracle) lastUserPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return ""
	}
	msgs := m.requests[len(m.requests)-1].Messages
	return msgs[len(msgs)-1].Content
}

func newTestLogger() *zap.Logger {
	return zap.NewNop()
}

func secondaryFilters() secondary.TaskFilters {
	return secondary.TaskFilters{}
}
