package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin establishes a session for the connection.
	CommandJoin CommandKind = iota
	// CommandCreateRoom creates a new room.
	CommandCreateRoom
	// CommandJoinRoom subscribes the session to a room.
	CommandJoinRoom
	// CommandLeaveRoom unsubscribes the session from a room.
	CommandLeaveRoom
	// CommandListRooms asks for the public room list.
	CommandListRooms
	// CommandSendMessage delivers a chat message to a room.
	CommandSendMessage
	// CommandSendPrivate delivers a private message to one recipient.
	CommandSendPrivate
	// CommandReact adds or removes a reaction on a message.
	CommandReact
	// CommandMarkRead records read state for a batch of messages.
	CommandMarkRead
	// CommandLoadHistory pages backward through a room's history.
	CommandLoadHistory
	// CommandTypingStart relays a typing-started signal.
	CommandTypingStart
	// CommandTypingStop relays a typing-stopped signal.
	CommandTypingStop
	// CommandSetStatus changes the session's presence status.
	CommandSetStatus
	// CommandNotificationRead acknowledges delivered notifications.
	CommandNotificationRead
)

// Command represents an action requested by a client. Seq, when non-zero,
// correlates acknowledged operations with their ack event.
type Command struct {
	Kind CommandKind
	Seq  int64

	Username string
	Avatar   string
	Status   Status

	RoomID   string
	RoomName string
	Private  bool

	Body        string
	RecipientID string

	MessageID  string
	MessageIDs []string
	Emoji      string
	Remove     bool

	Limit    int
	BeforeID string

	NotificationIDs []string
}
