package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/factkeeper/internal/ports/secondary"
)

// FactRepository implements secondary.FactRepository with SQLite.
type FactRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewFactRepository creates a new SQLite fact repository.
func NewFactRepository(db *sql.DB) *FactRepository {
	return &FactRepository{db: db, now: time.Now}
}

func scanFact(scanner interface {
	Scan(dest ...any) error
}) (*secondary.FactRecord, error) {
	var updatedAt sql.NullTime

	record := &secondary.FactRecord{}
	if err := scanner.Scan(&record.Number, &record.Description, &record.LastValidated, &updatedAt); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		record.UpdatedAt = updatedAt.Time.Format(time.RFC3339)
	}
	return record, nil
}

const factSelectCols = "number, description, last_validated, updated_at"

const factUpsertSQL = `INSERT INTO facts (number, description, last_validated, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(number) DO UPDATE SET description = excluded.description, last_validated = excluded.last_validated, updated_at = excluded.updated_at`

// List returns every fact ordered by number.
func (r *FactRepository) List(ctx context.Context) ([]*secondary.FactRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+factSelectCols+" FROM facts ORDER BY number ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}
	defer rows.Close()

	facts := []*secondary.FactRecord{}
	for rows.Next() {
		record, err := scanFact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		facts = append(facts, record)
	}

	return facts, rows.Err()
}

// Upsert writes rows keyed by number inside one transaction.
// Stored facts whose numbers are not in rows are kept.
func (r *FactRepository) Upsert(ctx context.Context, rows []*secondary.FactRecord) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return insertFacts(ctx, tx, rows, r.now().UTC())
	})
}

// ReplaceAll truncates the facts table and inserts rows in one transaction.
func (r *FactRepository) ReplaceAll(ctx context.Context, rows []*secondary.FactRecord) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM facts"); err != nil {
			return fmt.Errorf("failed to truncate facts: %w", err)
		}
		return insertFacts(ctx, tx, rows, r.now().UTC())
	})
}

// Count returns the number of stored facts.
func (r *FactRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM facts").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count facts: %w", err)
	}
	return n, nil
}

func insertFacts(ctx context.Context, tx *sql.Tx, rows []*secondary.FactRecord, now time.Time) error {
	stmt, err := tx.PrepareContext(ctx, factUpsertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare fact upsert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.Number, row.Description, row.LastValidated, now); err != nil {
			return fmt.Errorf("failed to upsert fact %d: %w", row.Number, err)
		}
	}
	return nil
}

func (r *FactRepository) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit facts: %w", err)
	}
	return nil
}

// Ensure FactRepository implements the interface
var _ secondary.FactRepository = (*FactRepository)(nil)
