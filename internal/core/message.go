package core

import (
	"time"

	"github.com/pulsechat/server/internal/utils"
)

// MessageKind distinguishes room messages from private ones.
type MessageKind string

const (
	KindText    MessageKind = "text"
	KindPrivate MessageKind = "private"
)

// Message is an immutable-content, mutable-metadata unit. Exactly one of
// Room and RecipientID is set: a room message targets Room, a private
// message targets RecipientID. Reactions and ReadBy are the only fields
// that change after creation.
type Message struct {
	ID          string
	SenderID    string
	Sender      string
	Body        string
	Room        string
	RecipientID string
	Kind        MessageKind
	CreatedAt   time.Time
	Reactions   map[string][]string
	ReadBy      map[string]struct{}
}

// ConversationKey returns the addressing key for the message: the room id,
// or the canonical pair key for a private thread.
func (m Message) ConversationKey() string {
	if m.Kind == KindPrivate {
		return PrivateKey(m.SenderID, m.RecipientID)
	}
	return m.Room
}

// HasRead reports whether the session has read the message.
func (m Message) HasRead(sessionID string) bool {
	_, ok := m.ReadBy[sessionID]
	return ok
}

// snapshot returns a copy that does not alias store-owned maps.
func (m *Message) snapshot() Message {
	c := *m
	c.Reactions = make(map[string][]string, len(m.Reactions))
	for emoji, names := range m.Reactions {
		c.Reactions[emoji] = append([]string(nil), names...)
	}
	c.ReadBy = make(map[string]struct{}, len(m.ReadBy))
	for id := range m.ReadBy {
		c.ReadBy[id] = struct{}{}
	}
	return c
}

// PrivateKey canonicalizes a pair of session ids so both participants
// resolve to the same thread regardless of who initiated.
func PrivateKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// NotificationKind classifies notification payloads.
type NotificationKind string

const (
	NotificationMessage NotificationKind = "message"
	NotificationPrivate NotificationKind = "private_message"
)

// notificationPreviewLimit caps the body excerpt carried by a notification.
const notificationPreviewLimit = 50

// Notification is an ephemeral projection of a message event, generated at
// dispatch time and never stored.
type Notification struct {
	ID        string
	Kind      NotificationKind
	From      string
	FromID    string
	Room      string
	Preview   string
	CreatedAt time.Time
}

// NewNotification builds a notification for a stored message, truncating the
// body to the preview limit.
func NewNotification(kind NotificationKind, msg Message) Notification {
	return Notification{
		ID:        utils.NewID(utils.PrefixNotification),
		Kind:      kind,
		From:      msg.Sender,
		FromID:    msg.SenderID,
		Room:      msg.Room,
		Preview:   previewOf(msg.Body),
		CreatedAt: time.Now(),
	}
}

func previewOf(body string) string {
	r := []rune(body)
	if len(r) <= notificationPreviewLimit {
		return body
	}
	return string(r[:notificationPreviewLimit])
}
