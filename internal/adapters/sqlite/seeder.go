package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/factkeeper/internal/db"
	"github.com/example/factkeeper/internal/ports/secondary"
)

// Seeder implements secondary.StoreSeeder with SQLite.
type Seeder struct {
	db *sql.DB
}

// NewSeeder creates a new SQLite seeder.
func NewSeeder(conn *sql.DB) *Seeder {
	return &Seeder{db: conn}
}

// SeedDefaults writes built-in data into empty tables in one transaction.
func (s *Seeder) SeedDefaults(ctx context.Context) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	return db.SeedDefaults(s.db)
}

var _ secondary.StoreSeeder = (*Seeder)(nil)
