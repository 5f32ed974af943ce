package core

import (
	"sync"
	"time"
)

// Status is a user's availability state.
type Status string

const (
	StatusOnline  Status = "online"
	StatusAway    Status = "away"
	StatusBusy    Status = "busy"
	StatusOffline Status = "offline"
)

// Valid reports whether the status is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusOnline, StatusAway, StatusBusy, StatusOffline:
		return true
	}
	return false
}

// PresenceInfo is a user's current status plus when it last changed.
type PresenceInfo struct {
	Status   Status
	LastSeen time.Time
}

// PresenceStore tracks availability per user. Entries are created on first
// connection and updated in place; they are never pruned.
type PresenceStore struct {
	mu    sync.RWMutex
	users map[string]PresenceInfo
}

// NewPresenceStore constructs an empty presence store.
func NewPresenceStore() *PresenceStore {
	return &PresenceStore{
		users: make(map[string]PresenceInfo),
	}
}

// SetStatus records a new status for the user, stamping the current time.
func (p *PresenceStore) SetStatus(userID string, status Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[userID] = PresenceInfo{
		Status:   status,
		LastSeen: time.Now(),
	}
}

// Status returns the user's current status. Unknown users are offline.
func (p *PresenceStore) Status(userID string) Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if info, ok := p.users[userID]; ok {
		return info.Status
	}
	return StatusOffline
}

// LastSeen returns when the user's presence last changed. The second return
// is false for users never seen.
func (p *PresenceStore) LastSeen(userID string) (time.Time, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	info, ok := p.users[userID]
	return info.LastSeen, ok
}

// Get returns the full presence record for a user.
func (p *PresenceStore) Get(userID string) (PresenceInfo, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	info, ok := p.users[userID]
	return info, ok
}

// BulkGet returns presence for each requested user. Users never seen are
// reported offline with an epoch last-seen.
func (p *PresenceStore) BulkGet(userIDs []string) map[string]PresenceInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make(map[string]PresenceInfo, len(userIDs))
	for _, userID := range userIDs {
		if info, ok := p.users[userID]; ok {
			result[userID] = info
		} else {
			result[userID] = PresenceInfo{Status: StatusOffline, LastSeen: time.Unix(0, 0).UTC()}
		}
	}
	return result
}

// OnlineUsers returns ids of all users whose status is not offline.
func (p *PresenceStore) OnlineUsers() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	online := make([]string, 0, len(p.users))
	for userID, info := range p.users {
		if info.Status != StatusOffline {
			online = append(online, userID)
		}
	}
	return online
}
