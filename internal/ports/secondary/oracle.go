package secondary

import (
	"context"

	"github.com/example/factkeeper/internal/models"
)

// Oracle is the external text-generation service.
// Implementations make exactly one attempt per call; timeouts come from ctx.
type Oracle interface {
	Generate(ctx context.Context, req models.OracleRequest) (*models.OracleResponse, error)
}

// FactSnapshot is the read-only local copy of the fact table.
type FactSnapshot interface {
	// LoadFacts returns the snapshot's facts. A missing snapshot is an error.
	LoadFacts(ctx context.Context) ([]models.Fact, error)
}

// GuidelineSnapshot is the read-only local copy of the guidelines.
type GuidelineSnapshot interface {
	LoadGuidelines(ctx context.Context) (string, error)
}
