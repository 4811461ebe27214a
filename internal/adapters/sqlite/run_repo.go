package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/factkeeper/internal/ports/secondary"
)

// RunRepository implements secondary.RunRepository with SQLite.
type RunRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRunRepository creates a new SQLite run repository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db, now: time.Now}
}

func scanRun(scanner interface {
	Scan(dest ...any) error
}) (*secondary.RunRecord, error) {
	var (
		errMsg    sql.NullString
		createdAt time.Time
	)

	record := &secondary.RunRecord{}
	err := scanner.Scan(
		&record.ID, &record.Kind, &record.Success, &record.Phase, &errMsg,
		&record.FactsBefore, &record.FactsAfter, &record.SkippedRows, &record.TotalTokens,
		&record.Persisted, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.ErrorMessage = errMsg.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

const runSelectCols = "id, kind, success, phase, error_message, facts_before, facts_after, skipped_rows, total_tokens, persisted, created_at"

// Create persists a run.
func (r *RunRepository) Create(ctx context.Context, run *secondary.RunRecord) error {
	var errMsg sql.NullString
	if run.ErrorMessage != "" {
		errMsg = sql.NullString{String: run.ErrorMessage, Valid: true}
	}

	now := r.now().UTC()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO runs ("+runSelectCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		run.ID, run.Kind, run.Success, run.Phase, errMsg,
		run.FactsBefore, run.FactsAfter, run.SkippedRows, run.TotalTokens,
		run.Persisted, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	run.CreatedAt = now.Format(time.RFC3339)
	return nil
}

// List returns the most recent runs, newest first. limit <= 0 means no limit.
func (r *RunRepository) List(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	query := "SELECT " + runSelectCols + " FROM runs ORDER BY created_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, record)
	}
	return runs, rows.Err()
}

// Ensure RunRepository implements the interface
var _ secondary.RunRepository = (*RunRepository)(nil)
