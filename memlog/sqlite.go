package memlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteLog is a structured action log backed by a local SQLite database.
// Unlike the document sink it is safe for concurrent writers: each entry is
// one insert.
type SQLiteLog struct {
	conn *sql.DB
	now  func() time.Time
}

// OpenSQLiteLog opens (creating if necessary) the log database at path and
// runs migrations.
func OpenSQLiteLog(ctx context.Context, path string) (*SQLiteLog, error) {
	if path == "" {
		return nil, fmt.Errorf("log database path cannot be empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log database at %q: %w", path, err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping log database: %w", err)
	}

	if err := migrateLog(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &SQLiteLog{conn: conn, now: time.Now}, nil
}

func migrateLog(ctx context.Context, conn *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS actions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			assistant TEXT NOT NULL,
			action TEXT NOT NULL,
			details TEXT NOT NULL DEFAULT '',
			logged_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			assistant TEXT NOT NULL,
			user_text TEXT NOT NULL,
			response_text TEXT NOT NULL,
			logged_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_assistant ON actions(assistant, logged_at)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_assistant ON conversations(assistant, logged_at)`,
	}
	for _, stmt := range stmts {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate log schema: %w", err)
		}
	}
	return nil
}

// LogAction implements Log.
func (l *SQLiteLog) LogAction(ctx context.Context, assistant, action, details string) error {
	_, err := l.conn.ExecContext(ctx,
		`INSERT INTO actions (assistant, action, details, logged_at) VALUES (?, ?, ?, ?)`,
		assistant, action, details, l.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert action: %w", err)
	}
	return nil
}

// LogConversation implements Log.
func (l *SQLiteLog) LogConversation(ctx context.Context, assistant, userText, responseText string) error {
	_, err := l.conn.ExecContext(ctx,
		`INSERT INTO conversations (assistant, user_text, response_text, logged_at) VALUES (?, ?, ?, ?)`,
		assistant, userText, responseText, l.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (l *SQLiteLog) Close() error {
	if l == nil || l.conn == nil {
		return nil
	}
	return l.conn.Close()
}
