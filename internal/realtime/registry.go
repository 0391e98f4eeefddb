package realtime

import (
	"sync"
	"time"
)

// Sender is the outbound half of one client transport. Implementations
// must not block: a slow consumer returns an error instead of stalling
// the dispatch loop.
type Sender interface {
	Send(event string, payload any) error
}

// Connection is one live client session.
type Connection struct {
	ID             string
	Identity       Identity
	ConnectedAt    time.Time
	LastActivityAt time.Time
}

// ConnectionView is the snapshot projection served to admin dashboards.
type ConnectionView struct {
	UserID         string    `json:"userId"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"displayName"`
	Role           string    `json:"role"`
	ConnectedAt    time.Time `json:"connectedAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
	IsOnline       bool      `json:"isOnline"`
}

type registryEntry struct {
	conn   Connection
	sender Sender
}

// Registry is the authoritative table of live connections for one hub.
// Instance-scoped on purpose: each audience owns its own table and
// tests never share accidental state.
type Registry struct {
	mu    sync.Mutex
	conns map[string]*registryEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*registryEntry)}
}

// Register records a new connection. A reconnect with the same id
// overwrites the previous record (remove-then-add semantics).
func (r *Registry) Register(connID string, ident Identity, sender Sender) {
	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, connID)
	r.conns[connID] = &registryEntry{
		conn: Connection{
			ID:             connID,
			Identity:       ident,
			ConnectedAt:    now,
			LastActivityAt: now,
		},
		sender: sender,
	}
}

// Unregister removes the connection and returns the removed record so
// the caller can announce the departure without a second lookup.
// Unknown ids are a benign no-op: disconnect races are expected.
func (r *Registry) Unregister(connID string) (Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.conns[connID]
	if !ok {
		return Connection{}, false
	}
	delete(r.conns, connID)
	return entry.conn, true
}

// Touch bumps lastActivityAt; unknown ids are silently ignored.
func (r *Registry) Touch(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.conns[connID]; ok {
		entry.conn.LastActivityAt = time.Now().UTC()
	}
}

// Get returns a copy of the connection record.
func (r *Registry) Get(connID string) (Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.conns[connID]
	if !ok {
		return Connection{}, false
	}
	return entry.conn, true
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// Snapshot returns a point-in-time copy of every connection whose last
// activity falls inside the liveness window. The copy lets callers
// serialize without racing concurrent registry mutations.
func (r *Registry) Snapshot(window time.Duration) []ConnectionView {
	cutoff := time.Now().UTC().Add(-window)
	r.mu.Lock()
	defer r.mu.Unlock()
	views := make([]ConnectionView, 0, len(r.conns))
	for _, entry := range r.conns {
		if entry.conn.LastActivityAt.Before(cutoff) {
			continue
		}
		views = append(views, ConnectionView{
			UserID:         entry.conn.Identity.UserID,
			Email:          entry.conn.Identity.Email,
			DisplayName:    entry.conn.Identity.DisplayName(),
			Role:           entry.conn.Identity.Role,
			ConnectedAt:    entry.conn.ConnectedAt,
			LastActivityAt: entry.conn.LastActivityAt,
			IsOnline:       true,
		})
	}
	return views
}

// sender resolves the transport for a connection at send time.
func (r *Registry) getSender(connID string) (Sender, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.conns[connID]
	if !ok {
		return nil, false
	}
	return entry.sender, true
}
