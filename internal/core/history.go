package core

import (
	"strings"
	"sync"
)

const (
	// DefaultHistoryLimit caps each conversation's retained history.
	DefaultHistoryLimit = 1000
	// DefaultPageLimit is the page size when the caller asks for none.
	DefaultPageLimit = 50
)

// HistoryStore keeps per-conversation message history for the process
// lifetime. Room and private threads are both capped at the same limit;
// insertion beyond the cap evicts oldest-first. Insertion order is the
// authoritative ordering key, not wall-clock time.
type HistoryStore struct {
	mu      sync.RWMutex
	limit   int
	rooms   map[string][]*Message
	private map[string][]*Message
}

// NewHistoryStore creates a store with the given per-conversation cap.
// Non-positive limits fall back to DefaultHistoryLimit.
func NewHistoryStore(limit int) *HistoryStore {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &HistoryStore{
		limit:   limit,
		rooms:   make(map[string][]*Message),
		private: make(map[string][]*Message),
	}
}

// Append routes the message into its conversation sequence and returns the
// stored copy. Private messages go to the canonical pair thread; room
// messages default to the global room when none is set.
func (s *HistoryStore) Append(msg Message) Message {
	stored := msg.snapshot()
	if stored.SenderID != "" {
		// The sender has read their own message by definition.
		stored.ReadBy[stored.SenderID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.Kind == KindPrivate {
		key := PrivateKey(msg.SenderID, msg.RecipientID)
		s.private[key] = s.appendCapped(s.private[key], &stored)
		return stored.snapshot()
	}

	room := msg.Room
	if room == "" {
		room = GlobalRoomID
		stored.Room = room
	}
	s.rooms[room] = s.appendCapped(s.rooms[room], &stored)
	return stored.snapshot()
}

func (s *HistoryStore) appendCapped(seq []*Message, msg *Message) []*Message {
	seq = append(seq, msg)
	if len(seq) > s.limit {
		seq = seq[len(seq)-s.limit:]
	}
	return seq
}

// PageRoom returns up to limit most-recent room messages strictly before
// beforeID if given, else the most recent limit overall, oldest first within
// the page. hasMore is true iff exactly limit messages were returned; it is
// a heuristic and can claim more when the page ends exactly at the oldest
// retained message.
func (s *HistoryStore) PageRoom(roomID string, limit int, beforeID string) ([]Message, bool) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seq := s.rooms[roomID]
	if beforeID != "" {
		for i, m := range seq {
			if m.ID == beforeID {
				seq = seq[:i]
				break
			}
		}
	}

	start := len(seq) - limit
	if start < 0 {
		start = 0
	}
	page := make([]Message, 0, len(seq)-start)
	for _, m := range seq[start:] {
		page = append(page, m.snapshot())
	}
	return page, len(page) == limit
}

// PagePrivate returns the most recent messages of a private thread, oldest
// first. Either participant id order resolves the same thread.
func (s *HistoryStore) PagePrivate(a, b string, limit int) []Message {
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seq := s.private[PrivateKey(a, b)]
	start := len(seq) - limit
	if start < 0 {
		start = 0
	}
	page := make([]Message, 0, len(seq)-start)
	for _, m := range seq[start:] {
		page = append(page, m.snapshot())
	}
	return page
}

// AddReaction records a reaction on the message, idempotent per
// (name, emoji). Returns the updated message, or false if no message with
// that id exists in any conversation.
func (s *HistoryStore) AddReaction(messageID, username, emoji string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.locate(messageID)
	if msg == nil {
		return Message{}, false
	}
	for _, name := range msg.Reactions[emoji] {
		if name == username {
			return msg.snapshot(), true
		}
	}
	msg.Reactions[emoji] = append(msg.Reactions[emoji], username)
	return msg.snapshot(), true
}

// RemoveReaction withdraws a user's reaction. Removing the last entry for an
// emoji drops the emoji key entirely.
func (s *HistoryStore) RemoveReaction(messageID, username, emoji string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.locate(messageID)
	if msg == nil {
		return Message{}, false
	}
	names := msg.Reactions[emoji]
	for i, name := range names {
		if name == username {
			names = append(names[:i], names[i+1:]...)
			break
		}
	}
	if len(names) == 0 {
		delete(msg.Reactions, emoji)
	} else {
		msg.Reactions[emoji] = names
	}
	return msg.snapshot(), true
}

// MarkRead adds the session to the message's read-by set. The set only
// grows; marking already-read is a no-op.
func (s *HistoryStore) MarkRead(messageID, sessionID string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.locate(messageID)
	if msg == nil {
		return Message{}, false
	}
	msg.ReadBy[sessionID] = struct{}{}
	return msg.snapshot(), true
}

// Search returns room messages whose body contains the query,
// case-insensitive. Private threads and evicted history are not searchable.
func (s *HistoryStore) Search(roomID, query string) []Message {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []Message
	for _, m := range s.rooms[roomID] {
		if strings.Contains(strings.ToLower(m.Body), q) {
			hits = append(hits, m.snapshot())
		}
	}
	return hits
}

// locate finds a message by id across room and private threads. Linear
// search; an id-to-location index is the optimization if scale demands it.
func (s *HistoryStore) locate(messageID string) *Message {
	for _, seq := range s.rooms {
		for _, m := range seq {
			if m.ID == messageID {
				return m
			}
		}
	}
	for _, seq := range s.private {
		for _, m := range seq {
			if m.ID == messageID {
				return m
			}
		}
	}
	return nil
}
