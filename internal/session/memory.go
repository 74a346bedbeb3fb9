package session

import (
	"context"
	"sync"
	"time"
)

type storedSession struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. It suits development and
// single-instance deployments; sessions are lost on restart. Expired entries
// are dropped when read and swept on every Save.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]storedSession
	now      func() time.Time
	closed   bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]storedSession),
		now:      time.Now,
	}
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}

	if !m.now().Before(s.expiresAt) {
		delete(m.sessions, id)
		return nil, nil
	}

	data := make([]byte, len(s.data))
	copy(data, s.data)

	return data, nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, id string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	now := m.now()

	for k, s := range m.sessions {
		if !now.Before(s.expiresAt) {
			delete(m.sessions, k)
		}
	}

	if ttl <= 0 {
		delete(m.sessions, id)
		return nil
	}

	stored := make([]byte, len(data))
	copy(stored, data)

	m.sessions[id] = storedSession{
		data:      stored,
		expiresAt: now.Add(ttl),
	}

	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.sessions, id)

	return nil
}

// Close drops every session. Later calls fail with ErrStoreClosed.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.sessions = make(map[string]storedSession)

	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}
