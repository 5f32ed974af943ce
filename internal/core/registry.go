package core

import "sync"

// Registry maps users to their live connections. A user may hold several
// connections at once (multiple devices or tabs); the reverse map gives O(1)
// lookup of the owning user on disconnect.
//
// Invariant: a user with zero connections has no forward entry at all, and
// every reverse entry has a matching forward entry.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]map[string]struct{}
	byConn map[string]string
}

// NewRegistry constructs an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]map[string]struct{}),
		byConn: make(map[string]string),
	}
}

// Add records a connection for the user.
func (r *Registry) Add(userID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.byUser[userID]
	if !ok {
		conns = make(map[string]struct{})
		r.byUser[userID] = conns
	}
	conns[connID] = struct{}{}
	r.byConn[connID] = userID
}

// Remove drops a connection for the user and returns the user's remaining
// connection count, taken under the same lock as the removal. Concurrent
// disconnects of the same user's last connections thus see zero exactly
// once. Removing a pair that was never added is a no-op.
func (r *Registry) Remove(userID, connID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conns, ok := r.byUser[userID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.byUser, userID)
		}
	}
	delete(r.byConn, connID)
	return len(r.byUser[userID])
}

// Count returns how many connections the user currently holds.
func (r *Registry) Count(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID])
}

// IsConnected reports whether the user has at least one live connection.
func (r *Registry) IsConnected(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}

// UserFor returns the user owning the given connection.
func (r *Registry) UserFor(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	userID, ok := r.byConn[connID]
	return userID, ok
}

// ConnectedUsers returns the ids of all users with live connections.
func (r *Registry) ConnectedUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]string, 0, len(r.byUser))
	for userID := range r.byUser {
		users = append(users, userID)
	}
	return users
}

// TotalConnections returns the number of live connections across all users.
func (r *Registry) TotalConnections() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}
