package session

import (
	"context"
	"sync"

	"loan-advisor/internal/common/errors"
)

type memoryEntry struct {
	mu      sync.Mutex
	session *Session
	deleted bool
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	opts    options
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryStore{opts: o, entries: make(map[string]*memoryEntry)}
}

func (m *MemoryStore) Create(_ context.Context, profile *UserProfile) (*Session, error) {
	s := New(m.opts.newID(), profile, m.opts.now())

	m.mu.Lock()
	m.entries[s.ID] = &memoryEntry{session: s}
	m.mu.Unlock()

	return s.Snapshot(), nil
}

func (m *MemoryStore) entry(id string) (*memoryEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	return e, ok
}

func (m *MemoryStore) expired(s *Session) bool {
	return m.opts.ttl > 0 && m.opts.now().Sub(s.LastActivity) > m.opts.ttl
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	e, ok := m.entry(id)
	if !ok {
		return nil, errors.NewSessionNotFoundError(id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted || m.expired(e.session) {
		return nil, errors.NewSessionNotFoundError(id)
	}
	return e.session.Snapshot(), nil
}

// Update applies fn to a working copy and commits it only if fn succeeds.
func (m *MemoryStore) Update(_ context.Context, id string, fn func(s *Session) error) (*Session, error) {
	e, ok := m.entry(id)
	if !ok {
		return nil, errors.NewSessionNotFoundError(id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted || m.expired(e.session) {
		return nil, errors.NewSessionNotFoundError(id)
	}

	working := e.session.Snapshot()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.ID = id
	e.session = working
	return working.Snapshot(), nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.entries[id]
	delete(m.entries, id)
	m.mu.Unlock()

	if !ok {
		return errors.NewSessionNotFoundError(id)
	}

	e.mu.Lock()
	e.deleted = true
	e.mu.Unlock()
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	if m.opts.ttl <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.entries {
		e.mu.Lock()
		if m.expired(e.session) {
			e.deleted = true
			delete(m.entries, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

// Len returns the number of live sessions, expired ones included until swept.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
