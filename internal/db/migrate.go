package db

import "database/sql"

func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS drinks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL UNIQUE,
			recipe TEXT NOT NULL DEFAULT '[]',
			created_at INTEGER NOT NULL DEFAULT (strftime('%s','now')),
			updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
		);`,

		// No foreign key on drink_id: the audit row for a deletion outlives
		// the drink it refers to.
		`CREATE TABLE IF NOT EXISTS drink_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			drink_id INTEGER NOT NULL,
			action TEXT NOT NULL CHECK(action IN ('created','updated','deleted')),
			actor TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
		);`,

		`CREATE INDEX IF NOT EXISTS idx_drink_events_drink_created ON drink_events(drink_id, created_at);`,
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Reset drops everything so Migrate starts from a clean slate. Destructive;
// runs only when explicitly opted in via configuration.
func Reset(db *sql.DB) error {
	stmts := []string{
		`DROP TABLE IF EXISTS drink_events;`,
		`DROP TABLE IF EXISTS drinks;`,
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
