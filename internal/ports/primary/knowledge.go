package primary

import (
	"context"

	"github.com/example/factkeeper/internal/models"
)

// KnowledgeService defines the primary port for reading and maintaining
// the stored knowledge base and guidelines outside a reconciliation.
type KnowledgeService interface {
	// KnowledgeBase resolves the current knowledge base through the
	// fallback tiers. It never fails.
	KnowledgeBase(ctx context.Context) *KnowledgeView

	// Guidelines resolves the current guidelines. It never fails.
	Guidelines(ctx context.Context) *GuidelinesView

	// ReplaceFacts swaps the whole stored fact table for facts.
	ReplaceFacts(ctx context.Context, facts []models.Fact) (int, error)

	// SetGuidelines replaces the stored guidelines.
	SetGuidelines(ctx context.Context, content string) error

	// Seed fills an empty store with the built-in data.
	Seed(ctx context.Context) (*SeedResult, error)
}

// KnowledgeView is a resolved knowledge base and where it came from.
type KnowledgeView struct {
	KnowledgeBase models.KnowledgeBase
	Source        string
	// Skipped lists the tiers passed over, as "source: reason".
	Skipped []string
}

// GuidelinesView is resolved guidelines text and where it came from.
type GuidelinesView struct {
	Content string
	Source  string
	Skipped []string
}

// SeedResult reports what Seed wrote.
type SeedResult struct {
	Facts      int
	Guidelines bool
}
