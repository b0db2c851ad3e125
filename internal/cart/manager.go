package cart

import "sync"

// Manager owns one Store per session. It replaces the original
// ambient-global cart with an explicit owner: consumers receive a *Store
// by reference and the Manager is the only place that maps sessions to
// carts.
type Manager struct {
	mu     sync.RWMutex
	stores map[string]*Store
}

func NewManager() *Manager {
	return &Manager{stores: make(map[string]*Store)}
}

// Get returns the session's cart, creating an empty one on first use.
func (m *Manager) Get(sessionID string) *Store {
	m.mu.RLock()
	store, ok := m.stores[sessionID]
	m.mu.RUnlock()
	if ok {
		return store
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if store, ok := m.stores[sessionID]; ok {
		return store
	}
	store = NewStore()
	m.stores[sessionID] = store
	return store
}

// Drop discards a session's cart entirely.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
}
