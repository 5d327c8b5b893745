package database

import (
	"context"
	"database/sql"
)

// Schema statements are idempotent so Migrate can run on every startup.
// Two tables back the whole service: the admin credential records and the
// section-keyed content documents. The trigger keeps updated_at current on
// every row modification without the write path having to remember it.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS admin_users (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		username       TEXT    NOT NULL UNIQUE,
		password_hash  TEXT    NOT NULL,
		token_version  INTEGER NOT NULL DEFAULT 0,
		created_at     INTEGER NOT NULL DEFAULT (strftime('%s','now')),
		updated_at     INTEGER NOT NULL DEFAULT (strftime('%s','now'))
	);`,
	`CREATE TABLE IF NOT EXISTS content_sections (
		section_key  TEXT PRIMARY KEY,
		data         TEXT NOT NULL,
		updated_at   INTEGER NOT NULL DEFAULT (strftime('%s','now'))
	);`,
	`CREATE TRIGGER IF NOT EXISTS content_sections_touch
	 AFTER UPDATE OF data ON content_sections
	 BEGIN
		UPDATE content_sections SET updated_at = strftime('%s','now')
		WHERE section_key = NEW.section_key;
	 END;`,
}

// Migrate creates the tables and trigger if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
