package setup

import (
	"context"
	"sync"
	"time"
)

// DefaultSessionTTL is how long an idle conversation survives.
const DefaultSessionTTL = 30 * time.Minute

// SessionStore keeps conversations keyed by the identity driving them.
// Get returns nil, nil when there is no live session.
type SessionStore interface {
	Get(ctx context.Context, key int64) (*Session, error)
	Put(ctx context.Context, key int64, s *Session) error
	Delete(ctx context.Context, key int64) error
}

type memoryEntry struct {
	session *Session
	expires time.Time
}

// MemoryStore is a process-local SessionStore with expiry.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[int64]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[int64]memoryEntry),
	}
}

func (m *MemoryStore) Get(_ context.Context, key int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, nil
	}
	return e.session.clone(), nil
}

func (m *MemoryStore) Put(_ context.Context, key int64, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{session: s.clone(), expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
