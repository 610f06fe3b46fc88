package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// GameLogSchema mirrors the game log table for fixture databases
const GameLogSchema = `
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
)`

// CreateInMemoryDB creates an in-memory SQLite database with the game log table
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// Every connection to :memory: is a new database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(GameLogSchema); err != nil {
		db.Close()
		t.Fatalf("Failed to create game_log table: %v", err)
	}

	return db
}

// InsertLogRow inserts a raw game log row
func InsertLogRow(t *testing.T, db *sql.DB, eventType, gameID, payload string) {
	t.Helper()
	insertSQL := `INSERT INTO game_log (event_type, game_id, payload, created_at) VALUES (?, ?, ?, 0)`
	if _, err := db.Exec(insertSQL, eventType, gameID, payload); err != nil {
		t.Fatalf("Failed to insert game log row: %v", err)
	}
}
