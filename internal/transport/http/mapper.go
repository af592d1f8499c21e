package http

import (
	"encoding/json"
	"sort"

	"github.com/pulsechat/server/internal/core"
	"github.com/pulsechat/server/internal/proto"
)

// inboundToCommand maps a wire envelope to a core command. A non-nil
// proto.Error means the envelope was understood but invalid; a non-nil error
// means the payload could not be decoded at all.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundUserJoin:
		var data proto.UserJoinData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Username == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "username is required"}, nil
		}
		return &core.Command{
			Kind:     core.CommandJoin,
			Seq:      inbound.Seq,
			Username: data.Username,
			Avatar:   data.Avatar,
		}, nil, nil

	case proto.InboundRoomCreate:
		var data proto.RoomCreateData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.RoomName == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomName is required"}, nil
		}
		return &core.Command{
			Kind:     core.CommandCreateRoom,
			Seq:      inbound.Seq,
			RoomName: data.RoomName,
			Private:  data.IsPrivate,
		}, nil, nil

	case proto.InboundRoomJoin, proto.InboundRoomLeave:
		var data proto.RoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		kind := core.CommandJoinRoom
		if inbound.Type == proto.InboundRoomLeave {
			kind = core.CommandLeaveRoom
		}
		return &core.Command{Kind: kind, Seq: inbound.Seq, RoomID: data.Room}, nil, nil

	case proto.InboundRoomList:
		return &core.Command{Kind: core.CommandListRooms, Seq: inbound.Seq}, nil, nil

	case proto.InboundMessageSend:
		var data proto.MessageSendData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:   core.CommandSendMessage,
			Seq:    inbound.Seq,
			RoomID: data.Room,
			Body:   data.Message,
		}, nil, nil

	case proto.InboundMessagePrivate:
		var data proto.MessagePrivateData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:        core.CommandSendPrivate,
			Seq:         inbound.Seq,
			RecipientID: data.RecipientID,
			Body:        data.Message,
		}, nil, nil

	case proto.InboundMessageReact:
		var data proto.MessageReactData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:      core.CommandReact,
			Seq:       inbound.Seq,
			MessageID: data.MessageID,
			Emoji:     data.Reaction,
			RoomID:    data.Room,
			Remove:    data.Remove,
		}, nil, nil

	case proto.InboundMessageRead:
		var data proto.MessageReadData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:       core.CommandMarkRead,
			Seq:        inbound.Seq,
			MessageIDs: data.MessageIDs,
			RoomID:     data.Room,
		}, nil, nil

	case proto.InboundMessagesLoad:
		var data proto.MessagesLoadData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:     core.CommandLoadHistory,
			Seq:      inbound.Seq,
			RoomID:   data.Room,
			Limit:    data.Limit,
			BeforeID: data.Before,
		}, nil, nil

	case proto.InboundTypingStart, proto.InboundTypingStop:
		var data proto.TypingData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &data); err != nil {
				return nil, nil, err
			}
		}
		kind := core.CommandTypingStart
		if inbound.Type == proto.InboundTypingStop {
			kind = core.CommandTypingStop
		}
		return &core.Command{
			Kind:        kind,
			RoomID:      data.Room,
			RecipientID: data.RecipientID,
		}, nil, nil

	case proto.InboundUserStatus:
		var data proto.UserStatusData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:   core.CommandSetStatus,
			Seq:    inbound.Seq,
			Status: core.Status(data.Status),
		}, nil, nil

	case proto.InboundNotificationRead:
		var data proto.NotificationReadData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:            core.CommandNotificationRead,
			Seq:             inbound.Seq,
			NotificationIDs: data.NotificationIDs,
		}, nil, nil

	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventSessionCreated:
		return eventOutbound(proto.EventUserJoined, event.Seq, proto.EventSessionCreated{
			UserID: event.User.ID,
			User:   userToWire(event.User),
			Users:  usersToWire(event.Users),
		})
	case core.EventUserOnline:
		return eventOutbound(proto.EventUserOnline, 0, presenceToWire(event.User))
	case core.EventUserOffline:
		return eventOutbound(proto.EventUserOffline, 0, presenceToWire(event.User))
	case core.EventStatusChanged:
		return eventOutbound(proto.EventUserStatusChange, 0, presenceToWire(event.User))
	case core.EventRoomCreated:
		return eventOutbound(proto.EventRoomCreated, event.Seq, roomToWire(event.Room))
	case core.EventRoomAnnounced:
		return eventOutbound(proto.EventRoomNew, 0, roomToWire(event.Room))
	case core.EventRoomJoined:
		return eventOutbound(proto.EventRoomJoined, event.Seq, proto.EventRoomMembership{
			Room:  event.Room.ID,
			Users: usersToWire(event.Users),
		})
	case core.EventRoomUserJoined:
		return eventOutbound(proto.EventRoomUserJoined, 0, proto.EventRoomMembership{
			Room:     event.RoomID,
			UserID:   event.User.ID,
			Username: event.User.Username,
			Users:    usersToWire(event.Users),
		})
	case core.EventRoomUserLeft:
		return eventOutbound(proto.EventRoomUserLeft, 0, proto.EventRoomMembership{
			Room:     event.RoomID,
			UserID:   event.User.ID,
			Username: event.User.Username,
		})
	case core.EventRoomLeft:
		return eventOutbound(proto.EventRoomLeft, event.Seq, proto.RoomData{Room: event.RoomID})
	case core.EventRoomList:
		rooms := make([]proto.Room, 0, len(event.Rooms))
		for _, r := range event.Rooms {
			rooms = append(rooms, roomToWire(r))
		}
		return eventOutbound(proto.EventRoomList, event.Seq, rooms)
	case core.EventMessage:
		return eventOutbound(proto.EventMessageReceive, 0, messageToWire(event.Message))
	case core.EventPrivateMessage:
		return eventOutbound(proto.EventPrivateReceive, 0, messageToWire(event.Message))
	case core.EventNotification:
		n := event.Notification
		return eventOutbound(proto.EventNotificationNew, 0, proto.EventNotification{
			ID:        n.ID,
			Kind:      string(n.Kind),
			From:      n.From,
			FromID:    n.FromID,
			Room:      n.Room,
			Message:   n.Preview,
			Timestamp: n.CreatedAt.Unix(),
		})
	case core.EventReaction:
		r := event.Reaction
		return eventOutbound(proto.EventReactionUpdate, 0, proto.EventReaction{
			MessageID: r.MessageID,
			Username:  r.Username,
			Reaction:  r.Emoji,
			Removed:   r.Removed,
		})
	case core.EventReadReceipt:
		r := event.Receipt
		return eventOutbound(proto.EventReadReceipt, 0, proto.EventReadUpdate{
			UserID:     r.SessionID,
			Username:   r.Username,
			MessageIDs: r.MessageIDs,
			Room:       event.RoomID,
		})
	case core.EventTyping:
		t := event.Typing
		return eventOutbound(proto.EventTypingUpdate, 0, proto.EventTyping{
			UserID:    t.SessionID,
			Username:  t.Username,
			IsTyping:  t.Typing,
			IsPrivate: t.Private,
		})
	case core.EventHistory:
		msgs := make([]proto.Message, 0, len(event.Messages))
		for _, m := range event.Messages {
			msgs = append(msgs, messageToWire(m))
		}
		return eventOutbound(proto.EventMessagesLoaded, event.Seq, proto.EventHistory{
			Room:     event.RoomID,
			Messages: msgs,
			HasMore:  event.HasMore,
		})
	case core.EventAck:
		return proto.Outbound{
			Type: proto.OutboundTypeAck,
			Seq:  event.Seq,
			Data: proto.Ack{
				Success:   event.Ack.OK,
				MessageID: event.Ack.MessageID,
				Error:     event.Ack.Reason,
			},
		}
	case core.EventNotificationRead:
		return eventOutbound(proto.EventNotificationsRead, event.Seq, proto.EventNotificationRead{
			NotificationIDs: event.NotificationIDs,
		})
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Seq:   event.Seq,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func eventOutbound(name string, seq int64, data any) proto.Outbound {
	return proto.Outbound{Type: proto.OutboundTypeEvent, Event: name, Seq: seq, Data: data}
}

func userToWire(u core.User) proto.User {
	rooms := u.RoomIDs()
	sort.Strings(rooms)
	return proto.User{
		ID:          u.ID,
		Username:    u.Username,
		Avatar:      u.Avatar,
		Status:      string(u.Status),
		Rooms:       rooms,
		ConnectedAt: u.ConnectedAt.Unix(),
		LastActive:  u.LastActive.Unix(),
	}
}

func usersToWire(users []core.User) []proto.User {
	out := make([]proto.User, 0, len(users))
	for _, u := range users {
		out = append(out, userToWire(u))
	}
	return out
}

func presenceToWire(u core.User) proto.EventUserPresence {
	return proto.EventUserPresence{
		UserID:   u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
		Status:   string(u.Status),
	}
}

func roomToWire(r core.Room) proto.Room {
	return proto.Room{
		ID:        r.ID,
		Name:      r.Name,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt.Unix(),
		IsPrivate: r.IsPrivate,
	}
}

func messageToWire(m core.Message) proto.Message {
	readBy := make([]string, 0, len(m.ReadBy))
	for id := range m.ReadBy {
		readBy = append(readBy, id)
	}
	sort.Strings(readBy)
	return proto.Message{
		ID:          m.ID,
		UserID:      m.SenderID,
		Username:    m.Sender,
		Message:     m.Body,
		Room:        m.Room,
		RecipientID: m.RecipientID,
		Kind:        string(m.Kind),
		Timestamp:   m.CreatedAt.Unix(),
		Reactions:   m.Reactions,
		ReadBy:      readBy,
		ReadCount:   len(readBy),
	}
}
