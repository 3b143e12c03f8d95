// Package thread provides core.ThreadStore implementations: a volatile
// in-memory store for tests and single-process hosts, and a SQLite-backed
// store for durable conversation history.
package thread

import (
	"sync"

	"github.com/billriesner/vongab2b/core"
	"github.com/billriesner/vongab2b/internal/util"
)

// InMemoryStore is a volatile ThreadStore keeping threads in a process
// local map. It is safe for concurrent access. Threads live for the process
// lifetime or until explicitly reset.
type InMemoryStore struct {
	mu      sync.RWMutex
	threads map[string]*core.Thread
}

// NewInMemoryStore constructs an empty in-memory thread store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{threads: make(map[string]*core.Thread)}
}

// GetOrCreate returns the live thread for id, creating an empty one on
// first use.
func (s *InMemoryStore) GetOrCreate(id string) (*core.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(id), nil
}

// Append adds a message to the thread, creating the thread if needed.
func (s *InMemoryStore) Append(threadID string, m core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreateLocked(threadID).Append(m)
	return nil
}

// Reset discards the thread's history and mints a fresh thread id.
func (s *InMemoryStore) Reset(threadID string) (*core.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.threads, threadID)
	fresh := core.NewThread(util.NewID())
	s.threads[fresh.ID] = fresh
	return fresh, nil
}

// getOrCreateLocked allocates and stores a new thread if absent; caller
// must hold the write lock.
func (s *InMemoryStore) getOrCreateLocked(id string) *core.Thread {
	if th, ok := s.threads[id]; ok {
		return th
	}
	th := core.NewThread(id)
	s.threads[id] = th
	return th
}
