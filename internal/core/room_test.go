package core

import (
	"strings"
	"testing"
)

func TestRegistrySeedsGlobalRoom(t *testing.T) {
	r := NewRegistry()

	global, ok := r.Get(GlobalRoomID)
	if !ok {
		t.Fatal("global room missing")
	}
	if global.CreatedBy != "system" || global.IsPrivate {
		t.Fatalf("unexpected global room: %+v", global)
	}
}

func TestRegistryCreateAndList(t *testing.T) {
	r := NewRegistry()

	pub := r.Create("gophers", "alice", false)
	priv := r.Create("secret", "bob", true)

	if !strings.HasPrefix(pub.ID, "room_") {
		t.Fatalf("unexpected room id %q", pub.ID)
	}
	if _, ok := r.Get(priv.ID); !ok {
		t.Fatal("private room not stored")
	}

	public := r.ListPublic()
	if len(public) != 2 {
		t.Fatalf("expected global + gophers, got %d rooms", len(public))
	}
	for _, room := range public {
		if room.IsPrivate {
			t.Fatalf("private room leaked into public list: %+v", room)
		}
	}
	if public[0].ID != GlobalRoomID {
		t.Fatalf("expected global first, got %q", public[0].ID)
	}
}

func TestRegistryDuplicateNamesAllowed(t *testing.T) {
	r := NewRegistry()

	a := r.Create("dup", "alice", false)
	b := r.Create("dup", "bob", false)
	if a.ID == b.ID {
		t.Fatal("rooms with the same name must get distinct ids")
	}
}

func TestRegistryDelete(t *testing.T) {
	r := NewRegistry()
	room := r.Create("ephemeral", "alice", false)

	if !r.Delete(room.ID) {
		t.Fatal("delete should succeed")
	}
	if _, ok := r.Get(room.ID); ok {
		t.Fatal("room still present after delete")
	}
	if r.Delete(room.ID) {
		t.Fatal("second delete should fail")
	}
	if r.Delete(GlobalRoomID) {
		t.Fatal("global room must never be deletable")
	}
}
