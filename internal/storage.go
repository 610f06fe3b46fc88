package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// LogEntry is a stored game log message
type LogEntry struct {
	ID        int64
	EventType string
	EntityID  string
	GameID    string
	UserID    string
	RollID    string
	Action    string
	CreatedAt time.Time
	Message   Message
}

// GameLog stores persisted bus messages the way the host game log would.
// It implements MessageSink; non-persisted messages are ignored.
type GameLog struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// OpenGameLog opens the game log database at path
func OpenGameLog(path string) (*GameLog, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return NewGameLog(db, path), nil
}

// NewGameLog wraps an open database. The schema must already exist.
func NewGameLog(db *sql.DB, path string) *GameLog {
	return &GameLog{db: db, path: path, now: time.Now}
}

// Close closes the underlying database
func (g *GameLog) Close() error {
	return g.db.Close()
}

// Record stores msg if it is marked persist
func (g *GameLog) Record(msg Message) error {
	if !msg.Persist {
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return &StorageError{Path: g.path, Op: "insert", Err: fmt.Errorf("failed to encode message: %w", err)}
	}

	var data struct {
		Action string `json:"action"`
		RollID string `json:"rollId"`
	}
	// Best effort: custom messages have no action or roll id
	_ = DecodeData(msg.Data, &data)

	_, err = g.db.Exec(
		`INSERT INTO game_log (event_type, entity_type, entity_id, game_id, user_id, roll_id, action, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.EventType, msg.EntityType, msg.EntityID, msg.GameID, msg.UserID,
		data.RollID, data.Action, string(payload), g.now().UnixMilli(),
	)
	if err != nil {
		return &StorageError{Path: g.path, Op: "insert", Err: err}
	}
	return nil
}

// List returns stored messages oldest first. gameID filters when non-empty;
// limit <= 0 returns everything.
func (g *GameLog) List(gameID string, limit int) ([]LogEntry, error) {
	query := `SELECT id, event_type, entity_id, game_id, user_id, roll_id, action, payload, created_at FROM game_log`
	var args []any
	if gameID != "" {
		query += ` WHERE game_id = ?`
		args = append(args, gameID)
	}
	query += ` ORDER BY id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := g.db.Query(query, args...)
	if err != nil {
		return nil, &StorageError{Path: g.path, Op: "query", Err: err}
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var (
			entry     LogEntry
			entityID  sql.NullString
			gameIDCol sql.NullString
			userID    sql.NullString
			rollID    sql.NullString
			action    sql.NullString
			payload   string
			createdAt int64
		)
		if err := rows.Scan(&entry.ID, &entry.EventType, &entityID, &gameIDCol, &userID, &rollID, &action, &payload, &createdAt); err != nil {
			return nil, &StorageError{Path: g.path, Op: "query", Err: fmt.Errorf("scan failed: %w", err)}
		}
		entry.EntityID = entityID.String
		entry.GameID = gameIDCol.String
		entry.UserID = userID.String
		entry.RollID = rollID.String
		entry.Action = action.String
		entry.CreatedAt = time.UnixMilli(createdAt)
		if err := json.Unmarshal([]byte(payload), &entry.Message); err != nil {
			LogWarn("Skipping undecodable game log entry %d: %v", entry.ID, err)
			continue
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, &StorageError{Path: g.path, Op: "query", Err: fmt.Errorf("rows iteration error: %w", err)}
	}

	return entries, nil
}

// Count returns the number of stored messages
func (g *GameLog) Count() (int, error) {
	var n int
	if err := g.db.QueryRow(`SELECT COUNT(*) FROM game_log`).Scan(&n); err != nil {
		return 0, &StorageError{Path: g.path, Op: "query", Err: err}
	}
	return n, nil
}
