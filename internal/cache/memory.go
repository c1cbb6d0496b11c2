package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/brief"
	"github.com/nhanzalone1/netgains/internal/calendar"
)

type memoryEntry struct {
	resp    *brief.Response
	expires time.Time
}

// MemoryStore is a process-local Store. Expired entries are dropped lazily on read.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[uuid.UUID]map[calendar.Day]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[uuid.UUID]map[calendar.Day]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key Key) (*brief.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key.UserID][key.Day]
	if !ok {
		return nil, ErrMiss
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries[key.UserID], key.Day)
		return nil, ErrMiss
	}
	return e.resp, nil
}

func (m *MemoryStore) Set(_ context.Context, key Key, resp *brief.Response, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	days, ok := m.entries[key.UserID]
	if !ok {
		days = make(map[calendar.Day]memoryEntry)
		m.entries[key.UserID] = days
	}
	e := memoryEntry{resp: resp}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	days[key.Day] = e
	return nil
}

func (m *MemoryStore) Invalidate(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
	return nil
}
