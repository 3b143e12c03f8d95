package thread

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/billriesner/vongab2b/core"
	"github.com/billriesner/vongab2b/internal/util"
)

// SQLiteStore is a durable ThreadStore persisting each message as one row.
// Messages are serialized as JSON; ordering is the rowid insertion order,
// which preserves the append-only ordering invariant across restarts.
type SQLiteStore struct {
	conn *sql.DB
}

// OpenSQLiteStore opens (creating if necessary) the thread database at path
// and runs migrations.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("thread database path cannot be empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create thread directory %q: %w", dir, err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open thread database at %q: %w", path, err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping thread database: %w", err)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS threads (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			thread_id TEXT NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
			payload TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_thread ON messages(thread_id, id)`,
		`PRAGMA foreign_keys = ON`,
	}
	for _, stmt := range stmts {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to migrate thread schema: %w", err)
		}
	}

	return &SQLiteStore{conn: conn}, nil
}

// GetOrCreate implements core.ThreadStore.
func (s *SQLiteStore) GetOrCreate(id string) (*core.Thread, error) {
	ctx := context.Background()
	if err := s.ensureThread(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT payload FROM messages WHERE thread_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages for thread %q: %w", id, err)
	}
	defer rows.Close()

	th := core.NewThread(id)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		var m core.Message
		if err := json.Unmarshal([]byte(payload), &m); err != nil {
			return nil, fmt.Errorf("failed to decode message payload: %w", err)
		}
		th.Append(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate message rows: %w", err)
	}
	return th, nil
}

// Append implements core.ThreadStore.
func (s *SQLiteStore) Append(threadID string, m core.Message) error {
	ctx := context.Background()
	if err := s.ensureThread(ctx, threadID); err != nil {
		return err
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	if _, err := s.conn.ExecContext(ctx,
		`INSERT INTO messages (thread_id, payload) VALUES (?, ?)`, threadID, string(payload)); err != nil {
		return fmt.Errorf("failed to append message to thread %q: %w", threadID, err)
	}
	return nil
}

// Reset implements core.ThreadStore: it deletes the thread and its messages
// and mints a fresh empty thread with a new id.
func (s *SQLiteStore) Reset(threadID string) (*core.Thread, error) {
	ctx := context.Background()
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM messages WHERE thread_id = ?`, threadID); err != nil {
		return nil, fmt.Errorf("failed to delete messages for thread %q: %w", threadID, err)
	}
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM threads WHERE id = ?`, threadID); err != nil {
		return nil, fmt.Errorf("failed to delete thread %q: %w", threadID, err)
	}
	freshID := util.NewID()
	if err := s.ensureThread(ctx, freshID); err != nil {
		return nil, err
	}
	return core.NewThread(freshID), nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *SQLiteStore) ensureThread(ctx context.Context, id string) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO threads (id, created_at) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`,
		id, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to ensure thread %q: %w", id, err)
	}
	return nil
}
