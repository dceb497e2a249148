package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent, so the
// whole list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		resource   TEXT PRIMARY KEY
		           CHECK(resource IN ('settings','presets','statuses')),
		body       TEXT NOT NULL,
		revision   INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS document_revisions (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		resource   TEXT NOT NULL,
		revision   INTEGER NOT NULL,
		body       TEXT NOT NULL,
		written_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_document_revisions_resource ON document_revisions(resource, revision)`,
}
