package session

import (
	"context"
	"sort"
	"sync"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/store"
)

// Manager keeps open sessions by graph ID. It is safe for concurrent use.
type Manager struct {
	store store.Store
	opts  Options

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns a manager whose sessions persist to st.
func NewManager(st store.Store, opts Options) *Manager {
	return &Manager{store: st, opts: opts, sessions: make(map[string]*Session)}
}

// Create registers a session for a graph that is not yet open, replacing any
// session already open under the same ID.
func (m *Manager) Create(g *arch.Graph) *Session {
	s := New(g, m.store, m.opts)
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.sessions[g.ID]; ok {
		old.Close()
	}
	m.sessions[g.ID] = s
	return s
}

// Open returns the session for id, loading the graph from the store when it
// is not already open. A missing graph yields the store's not-found error.
func (m *Manager) Open(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	g, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	s := New(g, m.store, m.opts)
	m.sessions[id] = s
	return s, nil
}

// Get returns an open session without touching the store.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove closes and forgets a session. Unsaved changes are discarded.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.Close()
		delete(m.sessions, id)
	}
}

// IDs returns the open session IDs in sorted order.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close closes every session.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.Close()
		delete(m.sessions, id)
	}
}
