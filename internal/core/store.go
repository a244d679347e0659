package core

import (
	"sync"

	"plugsetup/pkg/schema"
)

// SessionStore is the in-memory registry of active setup sessions, keyed by
// session ID. The store is injected into the dispatcher rather than held as
// package state so independent instances can run in isolation.
//
// The mutex guards only the map; per-session state is private to the caller
// driving that session.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session. An existing entry with the same ID is
// overwritten; the last caller wins.
func (st *SessionStore) Create(id, pluginID string, configSchema schema.ConfigSchema) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	session := NewSession(id, pluginID, configSchema)
	st.sessions[id] = session
	return session
}

// Get returns the session with the given ID, or nil if absent.
func (st *SessionStore) Get(id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

// Delete removes the session and reports whether anything was removed.
func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// IsActive reports whether the session exists and has not completed.
func (st *SessionStore) IsActive(id string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()

	session, ok := st.sessions[id]
	return ok && !session.Completed
}

// Len returns the number of registered sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// ClearAll drops every session unconditionally. Shutdown and testing hook.
func (st *SessionStore) ClearAll() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions = make(map[string]*Session)
}
