package core

import (
	"sort"
	"sync"
	"time"

	"github.com/pulsechat/server/internal/utils"
)

// GlobalRoomID is the permanent default room every session joins on connect.
const GlobalRoomID = "global"

// Room is a named broadcast domain. Rooms are immutable after creation;
// membership is tracked on the User, not here.
type Room struct {
	ID        string
	Name      string
	CreatedBy string
	CreatedAt time.Time
	IsPrivate bool
}

// Registry maps room ids to room metadata. The global room exists from
// construction and can never be deleted.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]Room
}

// NewRegistry creates a registry seeded with the global room.
func NewRegistry() *Registry {
	r := &Registry{rooms: make(map[string]Room)}
	r.rooms[GlobalRoomID] = Room{
		ID:        GlobalRoomID,
		Name:      "Global Chat",
		CreatedBy: "system",
		CreatedAt: time.Now(),
	}
	return r
}

// Create stores a new room with a fresh id. Names are not unique; creation
// always succeeds.
func (r *Registry) Create(name, createdBy string, isPrivate bool) Room {
	room := Room{
		ID:        utils.NewID(utils.PrefixRoom),
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
		IsPrivate: isPrivate,
	}

	r.mu.Lock()
	r.rooms[room.ID] = room
	r.mu.Unlock()
	return room
}

// Get resolves a room by id.
func (r *Registry) Get(id string) (Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	return room, ok
}

// ListPublic returns all non-private rooms, oldest first.
func (r *Registry) ListPublic() []Room {
	r.mu.RLock()
	rooms := make([]Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		if !room.IsPrivate {
			rooms = append(rooms, room)
		}
	}
	r.mu.RUnlock()

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
	return rooms
}

// Delete removes a room. The global room is never deleted. No inbound event
// reaches this; it exists for administrative use.
func (r *Registry) Delete(id string) bool {
	if id == GlobalRoomID {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok {
		return false
	}
	delete(r.rooms, id)
	return true
}
