package core

import (
	"reflect"
	"testing"
)

func TestTypingStartStop(t *testing.T) {
	tr := NewTypingTracker()

	tr.Start("room-1", "bob")
	tr.Start("room-1", "alice")

	if got := tr.Typing("room-1"); !reflect.DeepEqual(got, []string{"alice", "bob"}) {
		t.Fatalf("typing = %v, want [alice bob]", got)
	}

	tr.Stop("room-1", "alice")
	if got := tr.Typing("room-1"); !reflect.DeepEqual(got, []string{"bob"}) {
		t.Fatalf("typing = %v, want [bob]", got)
	}
}

func TestTypingStopAbsentIsNoop(t *testing.T) {
	tr := NewTypingTracker()

	tr.Stop("room-1", "ghost")
	tr.Start("room-1", "bob")
	tr.Stop("room-1", "ghost")

	if got := tr.Typing("room-1"); !reflect.DeepEqual(got, []string{"bob"}) {
		t.Fatalf("typing = %v, want [bob]", got)
	}
}

func TestTypingEmptyRoomReadsEmpty(t *testing.T) {
	tr := NewTypingTracker()

	if got := tr.Typing("never-seen"); len(got) != 0 {
		t.Fatalf("typing = %v, want empty", got)
	}

	tr.Start("room-1", "bob")
	tr.Stop("room-1", "bob")
	if got := tr.Typing("room-1"); len(got) != 0 {
		t.Fatalf("typing after stop = %v, want empty", got)
	}
}

func TestTypingClearUser(t *testing.T) {
	tr := NewTypingTracker()

	tr.Start("room-1", "bob")
	tr.Start("room-2", "bob")
	tr.Start("room-2", "alice")

	tr.ClearUser("bob")

	if got := tr.Typing("room-1"); len(got) != 0 {
		t.Fatalf("room-1 typing = %v, want empty", got)
	}
	if got := tr.Typing("room-2"); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Fatalf("room-2 typing = %v, want [alice]", got)
	}
}
