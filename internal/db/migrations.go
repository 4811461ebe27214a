package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_facts_and_guidelines",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "create_tasks_table",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_requires_human_to_tasks",
		Up:      migrationV3,
	},
	{
		Version: 4,
		Name:    "add_updated_at_columns",
		Up:      migrationV4,
	},
	{
		Version: 5,
		Name:    "create_runs_table",
		Up:      migrationV5,
	},
}

// LatestVersion returns the highest known migration version.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// CurrentVersion returns the version recorded in schema_version.
func CurrentVersion(conn *sql.DB) (int, error) {
	var v int
	if err := conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return v, nil
}

// RunMigrations applies every migration newer than the recorded version.
// Each migration runs in its own transaction together with its version row.
func RunMigrations(conn *sql.DB) error {
	if _, err := conn.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	currentVersion, err := CurrentVersion(conn)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func columnExists(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS facts (
			number INTEGER PRIMARY KEY CHECK(number > 0),
			description TEXT NOT NULL,
			last_validated TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS guidelines (
			id INTEGER PRIMARY KEY CHECK(id = 1),
			content TEXT NOT NULL
		);
	`)
	return err
}

func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('pending', 'in_progress', 'completed', 'cancelled')) DEFAULT 'pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	`)
	return err
}

func migrationV3(tx *sql.Tx) error {
	exists, err := columnExists(tx, "tasks", "requires_human")
	if err != nil {
		return err
	}
	if !exists {
		// Existing rows predate classification; they default to needing a human.
		if _, err := tx.Exec("ALTER TABLE tasks ADD COLUMN requires_human INTEGER NOT NULL DEFAULT 1"); err != nil {
			return err
		}
	}
	_, err = tx.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_requires_human ON tasks(requires_human)")
	return err
}

func migrationV4(tx *sql.Tx) error {
	for _, table := range []string{"facts", "guidelines", "tasks"} {
		exists, err := columnExists(tx, table, "updated_at")
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		// ADD COLUMN cannot take a non-constant default; backfill instead.
		if _, err := tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN updated_at DATETIME", table)); err != nil {
			return err
		}
		if _, err := tx.Exec(fmt.Sprintf("UPDATE %s SET updated_at = CURRENT_TIMESTAMP", table)); err != nil {
			return err
		}
	}
	return nil
}

func migrationV5(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			success INTEGER NOT NULL,
			phase TEXT NOT NULL,
			error_message TEXT,
			facts_before INTEGER NOT NULL DEFAULT 0,
			facts_after INTEGER NOT NULL DEFAULT 0,
			skipped_rows INTEGER NOT NULL DEFAULT 0,
			total_tokens INTEGER NOT NULL DEFAULT 0,
			persisted INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`)
	return err
}
