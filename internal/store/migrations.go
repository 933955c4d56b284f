package store

import "database/sql"

// Each entry is one schema version. Later versions extend the v1 table in
// place, so databases created by older builds pick the new columns up lazily
// on the next start.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		passport_text TEXT NOT NULL DEFAULT '',
		logo_path TEXT NOT NULL DEFAULT '',
		text_color TEXT NOT NULL DEFAULT '#FFFFFF',
		text_style TEXT NOT NULL DEFAULT 'normal',
		display_text_size INTEGER NOT NULL DEFAULT 96,
		timer_size INTEGER NOT NULL DEFAULT 96,
		updated_at TEXT NOT NULL DEFAULT ''
	);`,

	`ALTER TABLE settings ADD COLUMN prize_text TEXT NOT NULL DEFAULT '';`,

	`ALTER TABLE settings ADD COLUMN display_columns INTEGER NOT NULL DEFAULT 1;`,

	`ALTER TABLE settings ADD COLUMN prize_size INTEGER NOT NULL DEFAULT 32;`,
}

func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return err
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	for i := currentVersion; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return err
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", i+1); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
