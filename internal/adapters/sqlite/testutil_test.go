// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/factkeeper/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// one connection, one in-memory database
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedFact inserts a fact row directly.
func seedFact(t *testing.T, db *sql.DB, number int, description, lastValidated string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO facts (number, description, last_validated) VALUES (?, ?, ?)",
		number, description, lastValidated,
	)
	if err != nil {
		t.Fatalf("failed to seed fact: %v", err)
	}
}

// seedTask inserts a task row directly and returns its ID.
func seedTask(t *testing.T, db *sql.DB, title, status string, requiresHuman bool) int64 {
	t.Helper()
	if status == "" {
		status = "pending"
	}
	result, err := db.Exec(
		"INSERT INTO tasks (title, status, requires_human) VALUES (?, ?, ?)",
		title, status, requiresHuman,
	)
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read seeded task id: %v", err)
	}
	return id
}
