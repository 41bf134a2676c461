// Package warnings keeps the per-session list of overbooking messages
// shown to staff on the calendar.  Messages accumulate, duplicates
// included, until the session clears them.
package warnings

import (
	"context"
	"sync"
)

// Store holds warning messages keyed by session id.
type Store interface {
	Append(ctx context.Context, sessionID string, msgs ...string) error
	List(ctx context.Context, sessionID string) ([]string, error)
	Clear(ctx context.Context, sessionID string) error
}

// MemoryStore is a process-local Store.  It is used when Redis is not
// reachable and in tests.
type MemoryStore struct {
	mu   sync.Mutex
	msgs map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{msgs: make(map[string][]string)}
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, msgs ...string) error {
	if len(msgs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs[sessionID] = append(s.msgs[sessionID], msgs...)
	return nil
}

// List returns a copy of the session's messages in insertion order.
func (s *MemoryStore) List(_ context.Context, sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.msgs[sessionID]))
	copy(out, s.msgs[sessionID])
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.msgs, sessionID)
	return nil
}
