package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client. Seq, when
// set, is echoed back on acknowledgements and direct responses.
type Inbound struct {
	Type string          `json:"type"`
	Seq  int64           `json:"seq,omitempty"`
	Data json.RawMessage `json:"data"`
}

// Inbound message types.
const (
	InboundUserJoin         = "user:join"
	InboundRoomCreate       = "room:create"
	InboundRoomJoin         = "room:join"
	InboundRoomLeave        = "room:leave"
	InboundRoomList         = "room:list"
	InboundMessageSend      = "message:send"
	InboundMessagePrivate   = "message:private"
	InboundMessageReact     = "message:react"
	InboundMessageRead      = "message:read"
	InboundMessagesLoad     = "messages:load"
	InboundTypingStart      = "typing:start"
	InboundTypingStop       = "typing:stop"
	InboundUserStatus       = "user:status"
	InboundNotificationRead = "notification:read"
)

// Outbound envelope types.
const (
	OutboundTypeEvent = "event"
	OutboundTypeAck   = "ack"
	OutboundTypeError = "error"
)

// Outbound event names.
const (
	EventUserJoined        = "user:joined"
	EventUserOnline        = "user:online"
	EventUserOffline       = "user:offline"
	EventUserStatusChange  = "user:status-change"
	EventRoomCreated       = "room:created"
	EventRoomNew           = "room:new"
	EventRoomJoined        = "room:joined"
	EventRoomUserJoined    = "room:user-joined"
	EventRoomUserLeft      = "room:user-left"
	EventRoomLeft          = "room:left"
	EventRoomList          = "room:list"
	EventMessageReceive    = "message:receive"
	EventPrivateReceive    = "message:private-receive"
	EventNotificationNew   = "notification:new"
	EventReactionUpdate    = "message:reaction-update"
	EventReadReceipt       = "message:read-receipt"
	EventTypingUpdate      = "typing:update"
	EventMessagesLoaded    = "messages:loaded"
	EventNotificationsRead = "notification:read-confirmed"
)

// UserJoinData establishes a session for the connection.
type UserJoinData struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// RoomCreateData requests a new room.
type RoomCreateData struct {
	RoomName  string `json:"roomName"`
	IsPrivate bool   `json:"isPrivate,omitempty"`
}

// RoomData addresses a single room.
type RoomData struct {
	Room string `json:"room"`
}

// MessageSendData is a room chat message from the client.
type MessageSendData struct {
	Room    string `json:"room,omitempty"`
	Message string `json:"message"`
}

// MessagePrivateData is a direct message to one recipient.
type MessagePrivateData struct {
	RecipientID string `json:"recipientId"`
	Message     string `json:"message"`
}

// MessageReactData adds or removes a reaction.
type MessageReactData struct {
	MessageID string `json:"messageId"`
	Reaction  string `json:"reaction"`
	Room      string `json:"room,omitempty"`
	Remove    bool   `json:"remove,omitempty"`
}

// MessageReadData marks a batch of messages as read.
type MessageReadData struct {
	MessageIDs []string `json:"messageIds"`
	Room       string   `json:"room,omitempty"`
}

// MessagesLoadData pages backward through room history.
type MessagesLoadData struct {
	Room   string `json:"room,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Before string `json:"before,omitempty"`
}

// TypingData targets a typing signal at a recipient, a room, or everyone.
type TypingData struct {
	Room        string `json:"room,omitempty"`
	RecipientID string `json:"recipientId,omitempty"`
}

// UserStatusData changes the session's presence status.
type UserStatusData struct {
	Status string `json:"status"`
}

// NotificationReadData acknowledges delivered notifications.
type NotificationReadData struct {
	NotificationIDs []string `json:"notificationIds"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Seq   int64  `json:"seq,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// User is a participant as seen on the wire.
type User struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Avatar      string   `json:"avatar,omitempty"`
	Status      string   `json:"status"`
	Rooms       []string `json:"rooms,omitempty"`
	ConnectedAt int64    `json:"connectedAt,omitempty"`
	LastActive  int64    `json:"lastActive,omitempty"`
}

// Room is a room object as seen on the wire.
type Room struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
	IsPrivate bool   `json:"isPrivate"`
}

// Message is a stored message as seen on the wire.
type Message struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	Username    string              `json:"username"`
	Message     string              `json:"message"`
	Room        string              `json:"room,omitempty"`
	RecipientID string              `json:"recipientId,omitempty"`
	Kind        string              `json:"type"`
	Timestamp   int64               `json:"timestamp"`
	Reactions   map[string][]string `json:"reactions"`
	ReadBy      []string            `json:"readBy"`
	ReadCount   int                 `json:"readCount"`
}

// EventSessionCreated confirms a join, carrying the joiner's user object and
// the full online-user list.
type EventSessionCreated struct {
	UserID string `json:"userId"`
	User   User   `json:"user"`
	Users  []User `json:"users"`
}

// EventUserPresence announces a user coming online or going offline.
type EventUserPresence struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	Status   string `json:"status,omitempty"`
}

// EventRoomMembership announces a membership change within a room.
type EventRoomMembership struct {
	Room     string `json:"room"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Users    []User `json:"users,omitempty"`
}

// EventNotification carries an ephemeral message preview.
type EventNotification struct {
	ID        string `json:"id"`
	Kind      string `json:"type"`
	From      string `json:"from"`
	FromID    string `json:"fromId,omitempty"`
	Room      string `json:"room,omitempty"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// EventReaction announces a reaction update.
type EventReaction struct {
	MessageID string `json:"messageId"`
	Username  string `json:"username"`
	Reaction  string `json:"reaction"`
	Removed   bool   `json:"removed,omitempty"`
}

// EventReadUpdate announces read state for a batch of messages.
type EventReadUpdate struct {
	UserID     string   `json:"userId"`
	Username   string   `json:"username"`
	MessageIDs []string `json:"messageIds"`
	Room       string   `json:"room,omitempty"`
}

// EventTyping relays a transient typing signal.
type EventTyping struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	IsTyping  bool   `json:"isTyping"`
	IsPrivate bool   `json:"isPrivate,omitempty"`
}

// EventHistory delivers a page of room history.
type EventHistory struct {
	Room     string    `json:"room"`
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"hasMore"`
}

// EventNotificationRead echoes acknowledged notification ids.
type EventNotificationRead struct {
	NotificationIDs []string `json:"notificationIds"`
}

// Ack is the result of an acknowledged operation.
type Ack struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
