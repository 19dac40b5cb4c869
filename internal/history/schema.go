package history

import (
	"database/sql"
	"errors"
	"fmt"
)

const currentSchemaVersion = 1

// ErrSchemaTooNew is returned when the database was written by a newer version.
var ErrSchemaTooNew = errors.New("history: database schema is newer than this program")

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS sources (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uri TEXT NOT NULL UNIQUE,
			path TEXT,
			kind TEXT NOT NULL,
			size INTEGER,
			duration REAL,
			width INTEGER,
			height INTEGER,
			framerate REAL,
			count INTEGER NOT NULL DEFAULT 1,
			seen_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sources_seen_at ON sources(seen_at);
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var version int
	err = db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	switch {
	case version > currentSchemaVersion:
		return fmt.Errorf("%w (%d > %d)", ErrSchemaTooNew, version, currentSchemaVersion)
	case version < currentSchemaVersion:
		if _, err := db.Exec(`INSERT OR REPLACE INTO schema_version (version) VALUES (?)`, currentSchemaVersion); err != nil {
			return fmt.Errorf("write schema version: %w", err)
		}
	}
	return nil
}
