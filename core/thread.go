package core

import (
	"sync"
	"time"
)

// Thread is an identified, ordered, append-only message history for one
// conversation. Messages are strictly ordered by insertion and are never
// rewritten or removed; discarding history means starting a new thread.
// A thread belongs to exactly one assistant definition at a time.
//
// Thread is safe for concurrent access, though the engine runs at most one
// orchestration loop per thread at a time (single-writer in practice, not
// enforced).
type Thread struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	mu       sync.RWMutex
}

// NewThread creates an empty thread with the given id.
func NewThread(id string) *Thread {
	now := time.Now().UTC()
	return &Thread{ID: id, Messages: []Message{}, Created: now, Updated: now}
}

// Append adds a message to the end of the history.
func (t *Thread) Append(m Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Messages = append(t.Messages, m)
	t.Updated = time.Now().UTC()
}

// Len returns the number of messages in the thread.
func (t *Thread) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.Messages)
}

// Last returns the most recent message and true, or the zero Message and
// false for an empty thread.
func (t *Thread) Last() (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.Messages) == 0 {
		return Message{}, false
	}
	return t.Messages[len(t.Messages)-1], true
}

// History returns a copy of the full message slice so callers cannot mutate
// appended messages.
func (t *Thread) History() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	msgs := make([]Message, len(t.Messages))
	copy(msgs, t.Messages)
	return msgs
}

// Clone returns a deep copy of the thread safe for independent use.
func (t *Thread) Clone() *Thread {
	t.mu.RLock()
	defer t.mu.RUnlock()
	clone := &Thread{ID: t.ID, Messages: make([]Message, len(t.Messages)), Created: t.Created, Updated: t.Updated}
	copy(clone.Messages, t.Messages)
	return clone
}

// ThreadStore persists conversation threads. Implementations are pure
// bookkeeping: no operation mutates a previously appended message and a
// thread id maps to at most one live thread.
type ThreadStore interface {
	// GetOrCreate returns the thread for id, creating an empty one on first use.
	GetOrCreate(id string) (*Thread, error)
	// Append adds a message to the thread, creating the thread if needed.
	Append(threadID string, m Message) error
	// Reset discards the thread's history and mints a fresh thread id,
	// returning the new empty thread.
	Reset(threadID string) (*Thread, error)
}
