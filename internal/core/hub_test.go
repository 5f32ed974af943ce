package core

import "testing"

func TestHubBroadcastExcludesSender(t *testing.T) {
	hub := NewHub(nopLogger())

	alice := NewClient("conn-a", "alice", "alice@example.com")
	bob := NewClient("conn-b", "bob", "bob@example.com")
	hub.Register(alice)
	hub.Register(bob)
	hub.JoinRoom("conn-a", "general")
	hub.JoinRoom("conn-b", "general")

	hub.Broadcast("general", &Event{Kind: EventUserOnline, User: "alice"}, "conn-a")

	mustEvent(t, bob.Events, EventUserOnline)
	assertNoEvent(t, alice.Events, EventUserOnline)
}

func TestHubJoinIsIdempotent(t *testing.T) {
	hub := NewHub(nopLogger())

	alice := NewClient("conn-a", "alice", "")
	hub.Register(alice)

	hub.JoinRoom("conn-a", "general")
	hub.JoinRoom("conn-a", "general")
	hub.LeaveRoom("conn-a", "general")

	if hub.InRoom("conn-a", "general") {
		t.Fatal("one leave should undo any number of joins")
	}
}

func TestHubLeaveNeverJoinedIsNoop(t *testing.T) {
	hub := NewHub(nopLogger())

	alice := NewClient("conn-a", "alice", "")
	hub.Register(alice)

	hub.LeaveRoom("conn-a", "ghost-room")

	if hub.InRoom("conn-a", "ghost-room") {
		t.Fatal("client should not be in a room it never joined")
	}
}

func TestHubUnregisterRemovesFromAllRooms(t *testing.T) {
	hub := NewHub(nopLogger())

	alice := NewClient("conn-a", "alice", "")
	bob := NewClient("conn-b", "bob", "")
	hub.Register(alice)
	hub.Register(bob)
	hub.JoinRoom("conn-a", "general")
	hub.JoinRoom("conn-a", "random")
	hub.JoinRoom("conn-b", "general")

	hub.Unregister(alice)

	if hub.InRoom("conn-a", "general") || hub.InRoom("conn-a", "random") {
		t.Fatal("unregistered client should be out of every room")
	}

	// Remaining members still receive broadcasts.
	hub.Broadcast("general", &Event{Kind: EventUserOffline, User: "alice"}, "")
	mustEvent(t, bob.Events, EventUserOffline)
	assertNoEvent(t, alice.Events, EventUserOffline)
}

func TestHubBroadcastAll(t *testing.T) {
	hub := NewHub(nopLogger())

	alice := NewClient("conn-a", "alice", "")
	bob := NewClient("conn-b", "bob", "")
	carol := NewClient("conn-c", "carol", "")
	hub.Register(alice)
	hub.Register(bob)
	hub.Register(carol)

	hub.BroadcastAll(&Event{Kind: EventUserOnline, User: "dave"}, "conn-b")

	mustEvent(t, alice.Events, EventUserOnline)
	mustEvent(t, carol.Events, EventUserOnline)
	assertNoEvent(t, bob.Events, EventUserOnline)
}

func TestHubJoinUnknownConnIsNoop(t *testing.T) {
	hub := NewHub(nopLogger())

	hub.JoinRoom("never-registered", "general")

	if hub.InRoom("never-registered", "general") {
		t.Fatal("unregistered connection must not join rooms")
	}
}
