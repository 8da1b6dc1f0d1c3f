package state

import (
	"database/sql"
)

const currentSchemaVersion = 2

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			volume REAL NOT NULL DEFAULT 1.0,
			last_station TEXT
		);

		CREATE TABLE IF NOT EXISTS station_health (
			station_id TEXT PRIMARY KEY,
			success INTEGER NOT NULL DEFAULT 0,
			fail INTEGER NOT NULL DEFAULT 0,
			last_played_at INTEGER
		);

		CREATE TABLE IF NOT EXISTS favorites (
			id TEXT PRIMARY KEY,
			station_id TEXT NOT NULL UNIQUE,
			station TEXT NOT NULL,
			added_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_favorites_added_at ON favorites(added_at DESC);

		CREATE TABLE IF NOT EXISTS history (
			station_id TEXT PRIMARY KEY,
			station TEXT NOT NULL,
			played_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_history_played_at ON history(played_at DESC);

		CREATE TABLE IF NOT EXISTS alarm (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			time TEXT NOT NULL,
			enabled INTEGER NOT NULL DEFAULT 0,
			station TEXT
		);

		CREATE TABLE IF NOT EXISTS live_status (
			station_id TEXT PRIMARY KEY,
			is_live INTEGER NOT NULL,
			reason TEXT NOT NULL,
			content_type TEXT,
			checked_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	if err != nil {
		return err
	}

	// Migration: version 1 had no content type in the live-status cache
	_, _ = db.Exec(`ALTER TABLE live_status ADD COLUMN content_type TEXT`)

	return nil
}
