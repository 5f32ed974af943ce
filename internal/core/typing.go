package core

import (
	"sort"
	"sync"
)

// TypingTracker holds the set of users currently typing per room. Purely
// ephemeral; nothing survives a restart.
type TypingTracker struct {
	mu    sync.Mutex
	rooms map[string]map[string]struct{}
}

// NewTypingTracker constructs an empty typing tracker.
func NewTypingTracker() *TypingTracker {
	return &TypingTracker{
		rooms: make(map[string]map[string]struct{}),
	}
}

// Start marks the user as typing in the room.
func (t *TypingTracker) Start(roomID, userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	users, ok := t.rooms[roomID]
	if !ok {
		users = make(map[string]struct{})
		t.rooms[roomID] = users
	}
	users[userID] = struct{}{}
}

// Stop clears the user's typing state in the room. Stopping a user who was
// never typing is a no-op. Empty sets are pruned to bound memory.
func (t *TypingTracker) Stop(roomID, userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if users, ok := t.rooms[roomID]; ok {
		delete(users, userID)
		if len(users) == 0 {
			delete(t.rooms, roomID)
		}
	}
}

// Typing returns a sorted list of users currently typing in the room.
func (t *TypingTracker) Typing(roomID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	users := make([]string, 0, len(t.rooms[roomID]))
	for userID := range t.rooms[roomID] {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users
}

// ClearUser removes the user from every room's typing set. Called on
// disconnect as an implicit typing:stop for all rooms.
func (t *TypingTracker) ClearUser(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for roomID, users := range t.rooms {
		delete(users, userID)
		if len(users) == 0 {
			delete(t.rooms, roomID)
		}
	}
}
