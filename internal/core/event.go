package core

// EventKind is a notification the dispatch engine emits to clients.
type EventKind int

const (
	// EventSessionCreated confirms a join to the joiner, carrying their user
	// object and the full online-user list.
	EventSessionCreated EventKind = iota
	// EventUserOnline tells everyone else that a user connected.
	EventUserOnline
	// EventUserOffline tells everyone else that a user disconnected.
	EventUserOffline
	// EventStatusChanged broadcasts a presence change to every session.
	EventStatusChanged
	// EventRoomCreated returns a freshly created room to its creator.
	EventRoomCreated
	// EventRoomAnnounced broadcasts a new public room to everyone.
	EventRoomAnnounced
	// EventRoomJoined confirms a room join to the joiner with the member list.
	EventRoomJoined
	// EventRoomUserJoined tells a room's members that someone joined it.
	EventRoomUserJoined
	// EventRoomUserLeft tells a room's members that someone left it.
	EventRoomUserLeft
	// EventRoomLeft confirms a room leave to the leaver.
	EventRoomLeft
	// EventRoomList delivers the public room list to the caller.
	EventRoomList
	// EventMessage delivers a stored room message.
	EventMessage
	// EventPrivateMessage delivers a stored private message to both ends.
	EventPrivateMessage
	// EventNotification carries an ephemeral message preview.
	EventNotification
	// EventReaction broadcasts a reaction update to the conversation audience.
	EventReaction
	// EventReadReceipt broadcasts read state to the conversation audience.
	EventReadReceipt
	// EventTyping relays a transient typing signal; nothing is stored.
	EventTyping
	// EventHistory delivers a page of room history with the hasMore flag.
	EventHistory
	// EventAck acknowledges a send operation back to its caller.
	EventAck
	// EventNotificationRead echoes acknowledged notification ids.
	EventNotificationRead
	// EventError reports a domain error to the offending client.
	EventError
)

// Event is sent to clients to describe what happened in the system. Only the
// fields relevant for the kind are populated.
type Event struct {
	Kind            EventKind
	Seq             int64
	User            User
	Users           []User
	Room            Room
	RoomID          string
	Rooms           []Room
	Message         Message
	Messages        []Message
	HasMore         bool
	Notification    Notification
	Reaction        *ReactionUpdate
	Receipt         *ReadReceipt
	Typing          *TypingUpdate
	Ack             *Ack
	NotificationIDs []string
	Error           *CoreError
}

// ReactionUpdate describes a reaction add or removal on a message.
type ReactionUpdate struct {
	MessageID string
	Username  string
	Emoji     string
	Removed   bool
}

// ReadReceipt reports which messages a session has read.
type ReadReceipt struct {
	SessionID  string
	Username   string
	MessageIDs []string
}

// TypingUpdate is a transient typing signal. The receiver is responsible for
// clearing the indication after a bounded interval; the core keeps no state.
type TypingUpdate struct {
	SessionID string
	Username  string
	Typing    bool
	Private   bool
}

// Ack is the explicit success/failure result of an acknowledged operation.
type Ack struct {
	OK        bool
	MessageID string
	Reason    string
}
