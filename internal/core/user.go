package core

import (
	"net/url"
	"time"
)

// Status is a user's presence state.
type Status string

const (
	StatusOnline  Status = "online"
	StatusAway    Status = "away"
	StatusBusy    Status = "busy"
	StatusOffline Status = "offline"
)

// Valid reports whether the status is one of the known presence states.
func (s Status) Valid() bool {
	switch s {
	case StatusOnline, StatusAway, StatusBusy, StatusOffline:
		return true
	}
	return false
}

// User is a connected participant. The session id equals the connection id
// and is valid for the lifetime of that connection.
type User struct {
	ID          string
	Username    string
	Avatar      string
	Status      Status
	Rooms       map[string]struct{}
	ConnectedAt time.Time
	LastActive  time.Time
}

// InRoom reports whether the user is a member of the given room.
func (u User) InRoom(roomID string) bool {
	_, ok := u.Rooms[roomID]
	return ok
}

// RoomIDs returns the user's room memberships as a slice.
func (u User) RoomIDs() []string {
	ids := make([]string, 0, len(u.Rooms))
	for id := range u.Rooms {
		ids = append(ids, id)
	}
	return ids
}

// snapshot returns a copy that does not alias directory-owned state.
func (u *User) snapshot() User {
	c := *u
	c.Rooms = make(map[string]struct{}, len(u.Rooms))
	for id := range u.Rooms {
		c.Rooms[id] = struct{}{}
	}
	return c
}

// DefaultAvatar builds a deterministic avatar URL from the display name,
// used when the client supplies none.
func DefaultAvatar(username string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(username) + "&background=random"
}
