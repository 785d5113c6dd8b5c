package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// Config holds database configuration.
type Config struct {
	Path string
}

// Open initializes the archive database and applies the schema.
func Open(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}

	// WAL keeps the viewer readable while an analysis run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping archive database: %w", err)
	}

	log.Printf("archive database ready: %s", cfg.Path)
	return db, nil
}

func applySchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS readings (
			sensor_id TEXT NOT NULL,
			variable  TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			value     REAL NOT NULL,
			flagged   INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (sensor_id, variable, timestamp)
		);
		CREATE INDEX IF NOT EXISTS idx_readings_time ON readings(timestamp);

		CREATE TABLE IF NOT EXISTS analysis_runs (
			id          TEXT PRIMARY KEY,
			area        TEXT NOT NULL,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER,
			sensors     INTEGER NOT NULL DEFAULT 0,
			failed      TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'running'
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
