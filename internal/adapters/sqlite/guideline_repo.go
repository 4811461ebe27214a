package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/factkeeper/internal/ports/secondary"
)

// GuidelineRepository implements secondary.GuidelineRepository with SQLite.
// Guidelines live in a single row with id 1.
type GuidelineRepository struct {
	db *sql.DB
}

// NewGuidelineRepository creates a new SQLite guideline repository.
func NewGuidelineRepository(db *sql.DB) *GuidelineRepository {
	return &GuidelineRepository{db: db}
}

// Get returns the stored guidelines, or "" when the row is absent.
func (r *GuidelineRepository) Get(ctx context.Context) (string, error) {
	var content string
	err := r.db.QueryRowContext(ctx, "SELECT content FROM guidelines WHERE id = 1").Scan(&content)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get guidelines: %w", err)
	}
	return content, nil
}

// Set replaces the stored guidelines.
func (r *GuidelineRepository) Set(ctx context.Context, content string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO guidelines (id, content, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		content, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to set guidelines: %w", err)
	}
	return nil
}

// Ensure GuidelineRepository implements the interface
var _ secondary.GuidelineRepository = (*GuidelineRepository)(nil)
