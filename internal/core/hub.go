package core

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pulsechat/server/internal/metrics"
	"github.com/pulsechat/server/internal/utils"
)

// inbound pairs a command with the client that issued it.
type inbound struct {
	client *Client
	cmd    *Command
}

// Hub is the dispatch engine. A single goroutine owns all mutation and
// fan-out, so cross-store sequences (append then broadcast) observe a
// consistent snapshot. Delivery across membership churn is best-effort,
// at-most-once.
type Hub struct {
	sessions *Directory
	rooms    *Registry
	history  *HistoryStore

	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	inbox      chan inbound

	log     zerolog.Logger
	metrics *metrics.Set
}

// NewHub constructs the dispatch engine. Nil stores are replaced with fresh
// ones; a nil logger disables logging.
func NewHub(sessions *Directory, rooms *Registry, history *HistoryStore, logger *zerolog.Logger, m *metrics.Set) *Hub {
	if sessions == nil {
		sessions = NewDirectory()
	}
	if rooms == nil {
		rooms = NewRegistry()
	}
	if history == nil {
		history = NewHistoryStore(0)
	}
	lg := zerolog.Nop()
	if logger != nil {
		lg = *logger
	}
	return &Hub{
		sessions:   sessions,
		rooms:      rooms,
		history:    history,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan inbound, 64),
		log:        lg,
		metrics:    m,
	}
}

// Sessions returns the session directory.
func (h *Hub) Sessions() *Directory { return h.sessions }

// Rooms returns the room registry.
func (h *Hub) Rooms() *Registry { return h.rooms }

// History returns the message store.
func (h *Hub) History() *HistoryStore { return h.history }

// RegisterClient hands a new connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient tells the hub a connection has terminated. Safe to call
// once per connection; the hub ignores unknown clients.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Run processes registrations and commands until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c.ID] = c
			if h.metrics != nil {
				h.metrics.Connections.Inc()
			}
			go h.pump(ctx, c)
			h.log.Debug().Str("session_id", c.ID).Msg("client registered")
		case c := <-h.unregister:
			h.disconnect(c)
		case in := <-h.inbox:
			h.handle(in.client, in.cmd)
		}
	}
}

// pump forwards a client's commands into the hub inbox so the hub loop can
// select over a single channel.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case cmd := <-c.Commands:
			select {
			case h.inbox <- inbound{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			case <-c.done:
				return
			}
		}
	}
}

// disconnect moves a connection to the terminated state: per-room leave
// broadcasts, a global offline broadcast, then session removal. Terminated
// is absorbing; repeated calls are no-ops.
func (h *Hub) disconnect(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	close(c.done)
	if h.metrics != nil {
		h.metrics.Connections.Dec()
	}

	user, ok := h.sessions.Lookup(c.ID)
	if !ok {
		return
	}
	for roomID := range user.Rooms {
		h.broadcastRoom(roomID, &Event{Kind: EventRoomUserLeft, RoomID: roomID, User: user}, c.ID)
	}
	h.broadcastAll(&Event{Kind: EventUserOffline, User: user}, c.ID)
	h.sessions.Remove(c.ID)
	h.log.Info().Str("session_id", c.ID).Str("username", user.Username).Msg("session terminated")
}

func (h *Hub) handle(c *Client, cmd *Command) {
	if cmd == nil {
		return
	}
	if _, registered := h.clients[c.ID]; !registered {
		// Terminated connections process no further events.
		return
	}
	if cmd.Kind == CommandJoin {
		h.handleJoin(c, cmd)
		return
	}

	user, ok := h.sessions.Lookup(c.ID)
	if !ok {
		// Explicit reject instead of a silent drop.
		h.send(c, errorEvent(cmd.Seq, ErrCodeUnauthorized, "no session for this connection"))
		return
	}

	switch cmd.Kind {
	case CommandCreateRoom:
		h.handleCreateRoom(c, user, cmd)
	case CommandJoinRoom:
		h.handleJoinRoom(c, user, cmd)
	case CommandLeaveRoom:
		h.handleLeaveRoom(c, user, cmd)
	case CommandListRooms:
		h.send(c, &Event{Kind: EventRoomList, Seq: cmd.Seq, Rooms: h.rooms.ListPublic()})
	case CommandSendMessage:
		h.handleSendMessage(c, user, cmd)
	case CommandSendPrivate:
		h.handleSendPrivate(c, user, cmd)
	case CommandReact:
		h.handleReact(c, user, cmd)
	case CommandMarkRead:
		h.handleMarkRead(c, user, cmd)
	case CommandLoadHistory:
		h.handleLoadHistory(c, cmd)
	case CommandTypingStart:
		h.handleTyping(c, user, cmd, true)
	case CommandTypingStop:
		h.handleTyping(c, user, cmd, false)
	case CommandSetStatus:
		h.handleSetStatus(c, cmd)
	case CommandNotificationRead:
		h.send(c, &Event{Kind: EventNotificationRead, Seq: cmd.Seq, NotificationIDs: cmd.NotificationIDs})
	default:
		h.send(c, errorEvent(cmd.Seq, ErrCodeBadRequest, "unknown command"))
	}
}

func (h *Hub) handleJoin(c *Client, cmd *Command) {
	if cmd.Username == "" {
		h.send(c, errorEvent(cmd.Seq, ErrCodeBadRequest, "display name is required"))
		return
	}
	avatar := cmd.Avatar
	if avatar == "" {
		avatar = DefaultAvatar(cmd.Username)
	}

	user, err := h.sessions.Join(c.ID, cmd.Username, avatar)
	if err != nil {
		// Duplicate registration should not occur under correct transport
		// semantics; surface it loudly.
		h.log.Error().Err(err).Str("session_id", c.ID).Msg("duplicate session registration")
		h.send(c, errorEvent(cmd.Seq, ErrCodeDuplicateSession, "session already established"))
		return
	}

	user, _ = h.sessions.JoinRoom(c.ID, GlobalRoomID)

	h.send(c, &Event{Kind: EventSessionCreated, Seq: cmd.Seq, User: user, Users: h.sessions.All()})
	h.broadcastAll(&Event{Kind: EventUserOnline, User: user}, c.ID)
	h.log.Info().Str("session_id", c.ID).Str("username", user.Username).Msg("session created")
}

func (h *Hub) handleCreateRoom(c *Client, user User, cmd *Command) {
	if cmd.RoomName == "" {
		h.send(c, errorEvent(cmd.Seq, ErrCodeBadRequest, "room name is required"))
		return
	}

	room := h.rooms.Create(cmd.RoomName, user.Username, cmd.Private)
	h.send(c, &Event{Kind: EventRoomCreated, Seq: cmd.Seq, Room: room})
	if !room.IsPrivate {
		h.broadcastAll(&Event{Kind: EventRoomAnnounced, Room: room}, "")
	}
	h.log.Info().Str("room_id", room.ID).Str("room_name", room.Name).Str("created_by", user.Username).Msg("room created")
}

func (h *Hub) handleJoinRoom(c *Client, user User, cmd *Command) {
	if cmd.RoomID == "" {
		h.send(c, errorEvent(cmd.Seq, ErrCodeBadRequest, "room is required"))
		return
	}
	room, ok := h.rooms.Get(cmd.RoomID)
	if !ok {
		h.send(c, errorEvent(cmd.Seq, ErrCodeRoomNotFound, "room does not exist"))
		return
	}

	user, _ = h.sessions.JoinRoom(c.ID, room.ID)
	members := h.sessions.MembersOf(room.ID)

	h.broadcastRoom(room.ID, &Event{Kind: EventRoomUserJoined, RoomID: room.ID, User: user, Users: members}, "")
	h.send(c, &Event{Kind: EventRoomJoined, Seq: cmd.Seq, Room: room, Users: members})
}

func (h *Hub) handleLeaveRoom(c *Client, user User, cmd *Command) {
	if cmd.RoomID == "" {
		h.send(c, errorEvent(cmd.Seq, ErrCodeBadRequest, "room is required"))
		return
	}
	if !user.InRoom(cmd.RoomID) {
		h.send(c, errorEvent(cmd.Seq, ErrCodeNotInRoom, "not a member of that room"))
		return
	}

	// Announce while the leaver still nominally belongs to the room.
	h.broadcastRoom(cmd.RoomID, &Event{Kind: EventRoomUserLeft, RoomID: cmd.RoomID, User: user}, c.ID)
	h.sessions.LeaveRoom(c.ID, cmd.RoomID)
	h.send(c, &Event{Kind: EventRoomLeft, Seq: cmd.Seq, RoomID: cmd.RoomID})
}

func (h *Hub) handleSendMessage(c *Client, user User, cmd *Command) {
	if strings.TrimSpace(cmd.Body) == "" {
		h.ackFail(c, cmd.Seq, "message body is required")
		return
	}
	roomID := cmd.RoomID
	if roomID == "" {
		roomID = GlobalRoomID
	}

	stored := h.history.Append(Message{
		ID:        utils.NewID(utils.PrefixMessage),
		SenderID:  c.ID,
		Sender:    user.Username,
		Body:      cmd.Body,
		Room:      roomID,
		Kind:      KindText,
		CreatedAt: time.Now(),
	})
	if h.metrics != nil {
		h.metrics.Messages.Inc()
	}

	h.broadcastRoom(roomID, &Event{Kind: EventMessage, Message: stored}, "")
	h.broadcastRoom(roomID, &Event{
		Kind:         EventNotification,
		Notification: NewNotification(NotificationMessage, stored),
	}, c.ID)
	h.send(c, &Event{Kind: EventAck, Seq: cmd.Seq, Ack: &Ack{OK: true, MessageID: stored.ID}})
}

func (h *Hub) handleSendPrivate(c *Client, user User, cmd *Command) {
	if cmd.RecipientID == "" {
		h.ackFail(c, cmd.Seq, "recipient is required")
		return
	}
	if strings.TrimSpace(cmd.Body) == "" {
		h.ackFail(c, cmd.Seq, "message body is required")
		return
	}

	stored := h.history.Append(Message{
		ID:          utils.NewID(utils.PrefixPrivate),
		SenderID:    c.ID,
		Sender:      user.Username,
		Body:        cmd.Body,
		RecipientID: cmd.RecipientID,
		Kind:        KindPrivate,
		CreatedAt:   time.Now(),
	})
	if h.metrics != nil {
		h.metrics.Messages.Inc()
	}

	// Sender receives its own echo so both ends converge on identical state.
	if rc, ok := h.clients[cmd.RecipientID]; ok {
		h.send(rc, &Event{Kind: EventPrivateMessage, Message: stored})
		h.send(rc, &Event{
			Kind:         EventNotification,
			Notification: NewNotification(NotificationPrivate, stored),
		})
	}
	h.send(c, &Event{Kind: EventPrivateMessage, Message: stored})
	h.send(c, &Event{Kind: EventAck, Seq: cmd.Seq, Ack: &Ack{OK: true, MessageID: stored.ID}})
}

func (h *Hub) handleReact(c *Client, user User, cmd *Command) {
	if cmd.MessageID == "" || cmd.Emoji == "" {
		h.send(c, errorEvent(cmd.Seq, ErrCodeBadRequest, "message id and emoji are required"))
		return
	}

	var (
		msg Message
		ok  bool
	)
	if cmd.Remove {
		msg, ok = h.history.RemoveReaction(cmd.MessageID, user.Username, cmd.Emoji)
	} else {
		msg, ok = h.history.AddReaction(cmd.MessageID, user.Username, cmd.Emoji)
	}
	if !ok {
		h.send(c, errorEvent(cmd.Seq, ErrCodeMessageNotFound, "message not found"))
		return
	}

	h.broadcastConversation(msg, &Event{Kind: EventReaction, Reaction: &ReactionUpdate{
		MessageID: msg.ID,
		Username:  user.Username,
		Emoji:     cmd.Emoji,
		Removed:   cmd.Remove,
	}}, "")
}

func (h *Hub) handleMarkRead(c *Client, user User, cmd *Command) {
	byRoom := make(map[string][]string)
	byPartner := make(map[string][]string)

	for _, id := range cmd.MessageIDs {
		msg, ok := h.history.MarkRead(id, c.ID)
		if !ok {
			continue
		}
		if msg.Kind == KindPrivate {
			other := msg.SenderID
			if other == c.ID {
				other = msg.RecipientID
			}
			byPartner[other] = append(byPartner[other], id)
		} else {
			byRoom[msg.Room] = append(byRoom[msg.Room], id)
		}
	}

	for roomID, ids := range byRoom {
		h.broadcastRoom(roomID, &Event{Kind: EventReadReceipt, RoomID: roomID, Receipt: &ReadReceipt{
			SessionID:  c.ID,
			Username:   user.Username,
			MessageIDs: ids,
		}}, c.ID)
	}
	for partner, ids := range byPartner {
		if rc, ok := h.clients[partner]; ok {
			h.send(rc, &Event{Kind: EventReadReceipt, Receipt: &ReadReceipt{
				SessionID:  c.ID,
				Username:   user.Username,
				MessageIDs: ids,
			}})
		}
	}
}

func (h *Hub) handleLoadHistory(c *Client, cmd *Command) {
	roomID := cmd.RoomID
	if roomID == "" {
		roomID = GlobalRoomID
	}
	msgs, hasMore := h.history.PageRoom(roomID, cmd.Limit, cmd.BeforeID)
	h.send(c, &Event{Kind: EventHistory, Seq: cmd.Seq, RoomID: roomID, Messages: msgs, HasMore: hasMore})
}

func (h *Hub) handleTyping(c *Client, user User, cmd *Command, typing bool) {
	ev := &Event{Kind: EventTyping, Typing: &TypingUpdate{
		SessionID: c.ID,
		Username:  user.Username,
		Typing:    typing,
		Private:   cmd.RecipientID != "",
	}}

	switch {
	case cmd.RecipientID != "":
		if rc, ok := h.clients[cmd.RecipientID]; ok {
			h.send(rc, ev)
		}
	case cmd.RoomID != "":
		h.broadcastRoom(cmd.RoomID, ev, c.ID)
	default:
		h.broadcastAll(ev, c.ID)
	}
}

func (h *Hub) handleSetStatus(c *Client, cmd *Command) {
	if !cmd.Status.Valid() {
		h.send(c, errorEvent(cmd.Seq, ErrCodeBadRequest, "unknown status"))
		return
	}
	updated, ok := h.sessions.UpdateStatus(c.ID, cmd.Status)
	if !ok {
		return
	}
	// Presence changes are globally visible, not scoped to shared rooms.
	h.broadcastAll(&Event{Kind: EventStatusChanged, User: updated}, "")
}

// send delivers an event without blocking; slow consumers are dropped.
func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		if h.metrics != nil {
			h.metrics.DroppedEvents.Inc()
		}
		h.log.Debug().Str("session_id", c.ID).Int("kind", int(ev.Kind)).Msg("dropped event for slow consumer")
	}
}

// broadcastRoom fans an event out to the room's current members, minus the
// excluded session id if non-empty.
func (h *Hub) broadcastRoom(roomID string, ev *Event, exclude string) {
	for _, member := range h.sessions.MembersOf(roomID) {
		if member.ID == exclude {
			continue
		}
		if c, ok := h.clients[member.ID]; ok {
			h.send(c, ev)
		}
	}
}

// broadcastAll fans an event out to every registered connection, minus the
// excluded session id if non-empty.
func (h *Hub) broadcastAll(ev *Event, exclude string) {
	for id, c := range h.clients {
		if id == exclude {
			continue
		}
		h.send(c, ev)
	}
}

// broadcastConversation targets the message's actual conversation audience:
// the room for room messages, both participants for private ones.
func (h *Hub) broadcastConversation(msg Message, ev *Event, exclude string) {
	if msg.Kind == KindPrivate {
		for _, id := range []string{msg.SenderID, msg.RecipientID} {
			if id == exclude {
				continue
			}
			if c, ok := h.clients[id]; ok {
				h.send(c, ev)
			}
		}
		return
	}
	h.broadcastRoom(msg.Room, ev, exclude)
}

func (h *Hub) ackFail(c *Client, seq int64, reason string) {
	h.send(c, &Event{Kind: EventAck, Seq: seq, Ack: &Ack{OK: false, Reason: reason}})
}

func errorEvent(seq int64, code, msg string) *Event {
	return &Event{Kind: EventError, Seq: seq, Error: coreError(code, msg)}
}
