package classroom

import "sync"

// Participant roles as claimed by the client at join time.
const (
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

// Identity is the per-connection metadata set on joinRoom.
type Identity struct {
	UserID   string
	UserName string
	Role     string
}

// Registry maps a connection id to its identity. Connections appear on
// transport connect and disappear on transport disconnect; identity is
// filled in by the first joinRoom.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Identity
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Identity)}
}

// Register adds a connection with empty identity.
func (r *Registry) Register(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[connID]; !ok {
		r.conns[connID] = Identity{}
	}
}

// SetIdentity stores the identity claimed by a connection.
func (r *Registry) SetIdentity(connID string, id Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[connID] = id
}

// Lookup returns the identity for a connection, or ok=false if the
// connection is gone. Callers treat not-found as "already cleaned up".
func (r *Registry) Lookup(connID string) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.conns[connID]
	return id, ok
}

// Remove deletes a connection. Removing an unknown id is a no-op.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, connID)
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
