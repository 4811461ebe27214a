package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/example/factkeeper/internal/defaults"
)

// SeedDefaults loads the built-in facts and guidelines into an empty store.
// Tables that already hold rows are left alone. It reports how many fact
// rows were written and whether the guidelines row was written.
func SeedDefaults(conn *sql.DB) (facts int, guidelines bool, err error) {
	now := time.Now().UTC()

	tx, err := conn.Begin()
	if err != nil {
		return 0, false, fmt.Errorf("seed: begin: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM facts").Scan(&count); err != nil {
		return 0, false, fmt.Errorf("seed facts: %w", err)
	}
	if count == 0 {
		for _, f := range defaults.KnowledgeBase().Facts {
			if _, err := tx.Exec(
				"INSERT INTO facts (number, description, last_validated, updated_at) VALUES (?, ?, ?, ?)",
				f.Number, f.Description, f.LastValidated, now,
			); err != nil {
				return 0, false, fmt.Errorf("seed facts: %w", err)
			}
			facts++
		}
	}

	if err := tx.QueryRow("SELECT COUNT(*) FROM guidelines").Scan(&count); err != nil {
		return 0, false, fmt.Errorf("seed guidelines: %w", err)
	}
	if count == 0 {
		if _, err := tx.Exec(
			"INSERT INTO guidelines (id, content, updated_at) VALUES (1, ?, ?)",
			defaults.Guidelines, now,
		); err != nil {
			return 0, false, fmt.Errorf("seed guidelines: %w", err)
		}
		guidelines = true
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("seed: commit: %w", err)
	}
	return facts, guidelines, nil
}
