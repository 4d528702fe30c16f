// Package session tracks connected player sessions and their verification
// state.
package session

import (
	"sync"
	"time"
)

// Session describes one connected player as far as the gate is concerned.
type Session struct {
	ID         string
	JoinTime   time.Time
	Privileged bool
}

// Registry is the set of currently connected sessions plus the subset that
// has verified the shared key. Safe for concurrent use from any number of
// lifecycle goroutines; privileged sessions never enter the verified set
// because privilege is checked independently in IsAuthenticated.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	verified map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: map[string]*Session{},
		verified: map[string]struct{}{},
	}
}

// Connect registers a session with its join time set to now. A duplicate ID
// overwrites the previous entry and drops its verified status.
func (r *Registry) Connect(id string, privileged bool) {
	r.mu.Lock()
	r.sessions[id] = &Session{
		ID:         id,
		JoinTime:   time.Now(),
		Privileged: privileged,
	}
	delete(r.verified, id)
	r.mu.Unlock()
}

// Disconnect removes all state for the session. No-op for unknown IDs.
func (r *Registry) Disconnect(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	delete(r.verified, id)
	r.mu.Unlock()
}

// Get returns a copy of the session, if connected.
func (r *Registry) Get(id string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// IsAuthenticated reports whether the session may act: it is privileged or
// has verified the current key.
func (r *Registry) IsAuthenticated(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if sess, ok := r.sessions[id]; ok && sess.Privileged {
		return true
	}
	_, ok := r.verified[id]
	return ok
}

// MarkAuthenticated adds the session to the verified set. No-op for unknown
// or already verified sessions.
func (r *Registry) MarkAuthenticated(id string) {
	r.mu.Lock()
	if _, ok := r.sessions[id]; ok {
		r.verified[id] = struct{}{}
	}
	r.mu.Unlock()
}

// InvalidateAll empties the verified set. Privileged sessions are unaffected
// since they are never in it.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	r.verified = map[string]struct{}{}
	r.mu.Unlock()
}

// Len returns the number of connected sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ForEach calls do with a copy of every connected session.
func (r *Registry) ForEach(do func(Session)) {
	r.mu.RLock()
	sessions := make([]Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		sessions = append(sessions, *sess)
	}
	r.mu.RUnlock()

	for _, sess := range sessions {
		do(sess)
	}
}
