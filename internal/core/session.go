package core

import (
	"sync"
	"time"
)

// Directory is the source of truth for who is online and which rooms each
// connection belongs to. It is the single writer of room membership; the
// Registry never tracks members itself.
type Directory struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewDirectory creates an empty session directory.
func NewDirectory() *Directory {
	return &Directory{users: make(map[string]*User)}
}

// Join registers a new session keyed by its connection id with status online
// and an empty room set. Returns ErrDuplicateSession if the id is already
// registered; that is an unexpected transport condition, not user error.
func (d *Directory) Join(sessionID, username, avatar string) (User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.users[sessionID]; exists {
		return User{}, ErrDuplicateSession
	}

	now := time.Now()
	u := &User{
		ID:          sessionID,
		Username:    username,
		Avatar:      avatar,
		Status:      StatusOnline,
		Rooms:       make(map[string]struct{}),
		ConnectedAt: now,
		LastActive:  now,
	}
	d.users[sessionID] = u
	return u.snapshot(), nil
}

// Lookup resolves a session by connection id. Absence means the connection
// never completed a join; every event handler checks this first.
func (d *Directory) Lookup(sessionID string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[sessionID]
	if !ok {
		return User{}, false
	}
	return u.snapshot(), true
}

// UpdateStatus mutates presence and the last-active timestamp. No-op if the
// session is absent.
func (d *Directory) UpdateStatus(sessionID string, status Status) (User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.users[sessionID]
	if !ok {
		return User{}, false
	}
	u.Status = status
	u.LastActive = time.Now()
	return u.snapshot(), true
}

// Remove deletes a session, returning the removed user. Called exactly once
// per connection termination.
func (d *Directory) Remove(sessionID string) (User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.users[sessionID]
	if !ok {
		return User{}, false
	}
	delete(d.users, sessionID)
	return u.snapshot(), true
}

// JoinRoom adds a room to the session's membership set.
func (d *Directory) JoinRoom(sessionID, roomID string) (User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.users[sessionID]
	if !ok {
		return User{}, false
	}
	u.Rooms[roomID] = struct{}{}
	return u.snapshot(), true
}

// LeaveRoom removes a room from the session's membership set. The second
// return is false if the session is absent or was not a member.
func (d *Directory) LeaveRoom(sessionID, roomID string) (User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.users[sessionID]
	if !ok {
		return User{}, false
	}
	if _, member := u.Rooms[roomID]; !member {
		return u.snapshot(), false
	}
	delete(u.Rooms, roomID)
	return u.snapshot(), true
}

// MembersOf returns every session currently a member of the room.
// Linear scan; fine at this scale.
func (d *Directory) MembersOf(roomID string) []User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var members []User
	for _, u := range d.users {
		if _, ok := u.Rooms[roomID]; ok {
			members = append(members, u.snapshot())
		}
	}
	return members
}

// All returns every connected session.
func (d *Directory) All() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	users := make([]User, 0, len(d.users))
	for _, u := range d.users {
		users = append(users, u.snapshot())
	}
	return users
}

// ByUsername finds a session by display name. Names are not unique; the
// first match wins.
func (d *Directory) ByUsername(username string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range d.users {
		if u.Username == username {
			return u.snapshot(), true
		}
	}
	return User{}, false
}

// Len returns the number of connected sessions.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}
