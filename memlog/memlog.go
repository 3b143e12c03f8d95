// Package memlog implements the append-only action log: every tool
// invocation and every completed conversation turn is recorded, keyed by
// assistant name and timestamp. Only invocations are logged, never tool
// results; results can be large and are already visible in the thread.
//
// Two sinks are provided: DocLog appends human-readable entries to a
// Document (mirroring a shared memory document), and SQLiteLog writes
// structured rows for environments that want a queryable log.
package memlog

import (
	"context"
	"time"
)

// Log records tool invocations and completed conversation turns.
type Log interface {
	// LogAction records one tool invocation before dispatch.
	LogAction(ctx context.Context, assistant, action, details string) error
	// LogConversation records one completed orchestration loop invocation:
	// the original user text and the final assistant text.
	LogConversation(ctx context.Context, assistant, userText, responseText string) error
}

// NopLog discards all entries. Useful for tests or when memory logging is
// disabled.
type NopLog struct{}

// LogAction implements Log.
func (NopLog) LogAction(context.Context, string, string, string) error { return nil }

// LogConversation implements Log.
func (NopLog) LogConversation(context.Context, string, string, string) error { return nil }

// timestamp renders the shared log timestamp format.
func timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05") + " UTC"
}
