package internal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const gameLogSchema = `
CREATE TABLE IF NOT EXISTS game_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type  TEXT NOT NULL,
	entity_type TEXT,
	entity_id   TEXT,
	game_id     TEXT,
	user_id     TEXT,
	roll_id     TEXT,
	action      TEXT,
	payload     TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_log_game ON game_log (game_id, id);`

// OpenDatabase opens (creating if needed) a game log SQLite database
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(gameLogSchema); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	return nil
}
