// Package sqlite provides a SQLite-backed storage driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quillardco/sensei/pkg/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS turns (
	id TEXT PRIMARY KEY,
	seq INTEGER,
	user_id TEXT NOT NULL,
	session_id TEXT NOT NULL,
	user_input TEXT NOT NULL,
	assistant_raw TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(user_id, session_id, created_at, seq);
`

// SQLiteDriver implements storage.Driver backed by a SQLite database.
type SQLiteDriver struct {
	db *sql.DB
}

// NewSQLiteDriver creates a new SQLite-backed storer.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDriver(dbPath string) (*SQLiteDriver, error) {
	// Open the database using the github.com/mattn/go-sqlite3 driver (registered as "sqlite3")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteDriver{db: db}, nil
}

// Append stores a new turn. The seq column is the sqlite rowid surrogate used
// to break CreatedAt ties in insertion order.
func (s *SQLiteDriver) Append(ctx context.Context, turn *storage.Turn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (id, seq, user_id, session_id, user_input, assistant_raw, created_at)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM turns), ?, ?, ?, ?, ?)`,
		turn.ID, turn.UserID, turn.SessionID, turn.UserInput, turn.AssistantRaw, turn.CreatedAt.UTC(),
	)
	if err != nil {
		return storage.UnavailableError{Op: "append", Err: err}
	}

	return nil
}

// FetchRecent returns up to limit turns for the session, newest first.
func (s *SQLiteDriver) FetchRecent(ctx context.Context, userID, sessionID string, limit int) ([]*storage.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, session_id, user_input, assistant_raw, created_at
		 FROM turns
		 WHERE user_id = ? AND session_id = ?
		 ORDER BY created_at DESC, seq DESC
		 LIMIT ?`,
		userID, sessionID, limit,
	)
	if err != nil {
		return nil, storage.UnavailableError{Op: "fetch recent", Err: err}
	}
	defer rows.Close()

	return scanTurns(rows)
}

func scanTurns(rows *sql.Rows) ([]*storage.Turn, error) {
	var turns []*storage.Turn
	for rows.Next() {
		var (
			turn      storage.Turn
			createdAt time.Time
		)
		if err := rows.Scan(&turn.ID, &turn.UserID, &turn.SessionID, &turn.UserInput, &turn.AssistantRaw, &createdAt); err != nil {
			return nil, storage.UnavailableError{Op: "scan turn", Err: err}
		}
		turn.CreatedAt = createdAt
		turns = append(turns, &turn)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.UnavailableError{Op: "iterate turns", Err: err}
	}

	return turns, nil
}

// Close closes the underlying database connection.
func (s *SQLiteDriver) Close() error {
	return s.db.Close()
}
