package session

import (
	"context"
	"sync"
	"time"
)

// Store persists session state between requests.
type Store interface {
	Load(ctx context.Context, sid string) (State, bool, error)
	Save(ctx context.Context, sid string, st State) error
}

type memoryEntry struct {
	state     State
	expiresAt time.Time
}

// MemoryStore keeps session state in process memory. It is the default
// backend; state does not survive a restart.
type MemoryStore struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates a memory store whose entries expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

// Load returns the stored state for sid. Expired entries are evicted and
// reported as absent.
func (m *MemoryStore) Load(_ context.Context, sid string) (State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[sid]
	if !ok {
		return State{}, false, nil
	}
	if time.Now().After(e.expiresAt) {
		delete(m.entries, sid)
		return State{}, false, nil
	}
	return e.state, true, nil
}

// Save stores the state for sid and refreshes its deadline.
func (m *MemoryStore) Save(_ context.Context, sid string, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sid] = memoryEntry{state: st, expiresAt: time.Now().Add(m.ttl)}
	return nil
}
