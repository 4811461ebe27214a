package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/factkeeper/internal/models"
	"github.com/example/factkeeper/internal/ports/primary"
	"github.com/example/factkeeper/internal/ports/secondary"
)

var errNoStore = errors.New("remote store not configured")

// KnowledgeServiceImpl implements the KnowledgeService interface.
type KnowledgeServiceImpl struct {
	resolver      *Resolver
	factRepo      secondary.FactRepository
	guidelineRepo secondary.GuidelineRepository
	seeder        secondary.StoreSeeder
	logger        *zap.Logger
}

// NewKnowledgeService creates a new KnowledgeService. The repositories and
// seeder may be nil when no store is configured; reads then fall back to
// local and built-in data and writes fail.
func NewKnowledgeService(
	resolver *Resolver,
	factRepo secondary.FactRepository,
	guidelineRepo secondary.GuidelineRepository,
	seeder secondary.StoreSeeder,
	logger *zap.Logger,
) *KnowledgeServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KnowledgeServiceImpl{
		resolver:      resolver,
		factRepo:      factRepo,
		guidelineRepo: guidelineRepo,
		seeder:        seeder,
		logger:        logger,
	}
}

// KnowledgeBase resolves the current knowledge base.
func (s *KnowledgeServiceImpl) KnowledgeBase(ctx context.Context) *primary.KnowledgeView {
	res := s.resolver.ResolveKnowledgeBase(ctx)
	return &primary.KnowledgeView{
		KnowledgeBase: res.Value,
		Source:        res.Source,
		Skipped:       describeAttempts(res.Attempts),
	}
}

// Guidelines resolves the current guidelines.
func (s *KnowledgeServiceImpl) Guidelines(ctx context.Context) *primary.GuidelinesView {
	res := s.resolver.ResolveGuidelines(ctx)
	return &primary.GuidelinesView{
		Content: res.Value,
		Source:  res.Source,
		Skipped: describeAttempts(res.Attempts),
	}
}

// ReplaceFacts truncates the stored facts and writes facts in one
// transaction. An empty list is refused: a knowledge base with no facts
// cannot be represented.
func (s *KnowledgeServiceImpl) ReplaceFacts(ctx context.Context, facts []models.Fact) (int, error) {
	if s.factRepo == nil {
		return 0, errNoStore
	}
	if len(facts) == 0 {
		return 0, fmt.Errorf("refusing to replace facts with an empty list")
	}
	if dups := (models.KnowledgeBase{Facts: facts}).DuplicateNumbers(); len(dups) > 0 {
		return 0, fmt.Errorf("duplicate fact numbers: %v", dups)
	}

	rows := make([]*secondary.FactRecord, len(facts))
	for i, f := range facts {
		rows[i] = &secondary.FactRecord{Number: f.Number, Description: f.Description, LastValidated: f.LastValidated}
	}
	if err := s.factRepo.ReplaceAll(ctx, rows); err != nil {
		return 0, fmt.Errorf("failed to replace facts: %w", err)
	}

	s.logger.Info("Fact table replaced", zap.Int("facts", len(rows)))
	return len(rows), nil
}

// SetGuidelines stores new guidelines text.
func (s *KnowledgeServiceImpl) SetGuidelines(ctx context.Context, content string) error {
	if s.guidelineRepo == nil {
		return errNoStore
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("guidelines cannot be empty")
	}
	if err := s.guidelineRepo.Set(ctx, content); err != nil {
		return fmt.Errorf("failed to set guidelines: %w", err)
	}

	s.logger.Info("Guidelines updated", zap.Int("length", len(content)))
	return nil
}

// Seed fills an empty store with the built-in facts and guidelines.
func (s *KnowledgeServiceImpl) Seed(ctx context.Context) (*primary.SeedResult, error) {
	if s.seeder == nil {
		return nil, errNoStore
	}
	facts, guidelines, err := s.seeder.SeedDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	s.logger.Info("Store seeded", zap.Int("facts", facts), zap.Bool("guidelines", guidelines))
	return &primary.SeedResult{Facts: facts, Guidelines: guidelines}, nil
}

func describeAttempts(attempts []TierAttempt) []string {
	if len(attempts) == 0 {
		return nil
	}
	out := make([]string, len(attempts))
	for i, a := range attempts {
		out[i] = fmt.Sprintf("%s: %v", a.Source, a.Err)
	}
	return out
}

var _ primary.KnowledgeService = (*KnowledgeServiceImpl)(nil)
