package store

import (
	"database/sql"
	"fmt"

	"codequest/internal/logging"
)

// CurrentSchemaVersion is the journal schema version written by this build.
// v1: attempts table
// v2: character_name column
const CurrentSchemaVersion = 2

// initSchema creates the current schema. Journals written before v2 keep
// their table and get new columns from pendingMigrations.
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS attempts (
		id TEXT PRIMARY KEY,
		character_id TEXT NOT NULL DEFAULT '',
		character_name TEXT NOT NULL DEFAULT '',
		challenge_id TEXT NOT NULL,
		success BOOLEAN NOT NULL,
		passed INTEGER NOT NULL DEFAULT 0,
		total INTEGER NOT NULL DEFAULT 0,
		elapsed_ns INTEGER NOT NULL DEFAULT 0,
		source TEXT NOT NULL DEFAULT '',
		feedback_json TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_attempts_challenge ON attempts(challenge_id);
	CREATE INDEX IF NOT EXISTS idx_attempts_created ON attempts(created_at);

	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	);
	`)
	return err
}

// Migration adds a column missing from an older journal. Every column added
// here must also be in initSchema.
type Migration struct {
	Table  string
	Column string
	Def    string
}

var pendingMigrations = []Migration{
	{"attempts", "character_name", "TEXT NOT NULL DEFAULT ''"},
}

// RunMigrations adds missing columns, records the schema version and reports
// how many columns it added.
func RunMigrations(db *sql.DB) (int, error) {
	applied := 0
	for _, m := range pendingMigrations {
		if !tableExists(db, m.Table) {
			logging.StoreDebug("Table missing, skipping migration: %s.%s", m.Table, m.Column)
			continue
		}
		if columnExists(db, m.Table, m.Column) {
			continue
		}
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		if _, err := db.Exec(query); err != nil {
			return applied, fmt.Errorf("migration %s.%s failed: %w", m.Table, m.Column, err)
		}
		logging.Store("Migration applied: added %s.%s", m.Table, m.Column)
		applied++
	}

	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		return applied, fmt.Errorf("failed to reset schema version: %w", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", CurrentSchemaVersion); err != nil {
		return applied, fmt.Errorf("failed to record schema version: %w", err)
	}
	logging.StoreDebug("Schema migrations complete: applied=%d", applied)
	return applied, nil
}

// SchemaVersion returns the version recorded in db, or 0 when none is.
func SchemaVersion(db *sql.DB) int {
	var v int
	if err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v); err != nil {
		return 0
	}
	return v
}

// columnExists checks if a column exists in a table using PRAGMA table_info.
func columnExists(db *sql.DB, table, column string) bool {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		logging.StoreDebug("PRAGMA table_info(%s) failed: %v", table, err)
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}

func tableExists(db *sql.DB, table string) bool {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count); err != nil {
		return false
	}
	return count > 0
}
