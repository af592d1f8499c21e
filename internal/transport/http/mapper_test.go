package http

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pulsechat/server/internal/core"
	"github.com/pulsechat/server/internal/proto"
)

func inboundEnvelope(t *testing.T, typ string, seq int64, data any) proto.Inbound {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return proto.Inbound{Type: typ, Seq: seq, Data: raw}
}

func TestInboundToCommandUserJoin(t *testing.T) {
	cmd, protoErr, err := inboundToCommand(inboundEnvelope(t, proto.InboundUserJoin, 1, proto.UserJoinData{Username: "alice", Avatar: "a.png"}))
	if err != nil || protoErr != nil {
		t.Fatalf("unexpected errors: %v %v", err, protoErr)
	}
	if cmd.Kind != core.CommandJoin || cmd.Username != "alice" || cmd.Avatar != "a.png" || cmd.Seq != 1 {
		t.Fatalf("unexpected command: %+v", cmd)
	}

	_, protoErr, err = inboundToCommand(inboundEnvelope(t, proto.InboundUserJoin, 0, proto.UserJoinData{}))
	if err != nil || protoErr == nil || protoErr.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request for missing username, got %v %v", err, protoErr)
	}
}

func TestInboundToCommandMessages(t *testing.T) {
	cmd, _, err := inboundToCommand(inboundEnvelope(t, proto.InboundMessageSend, 4, proto.MessageSendData{Room: "r1", Message: "hi"}))
	if err != nil {
		t.Fatalf("map send: %v", err)
	}
	if cmd.Kind != core.CommandSendMessage || cmd.RoomID != "r1" || cmd.Body != "hi" {
		t.Fatalf("unexpected command: %+v", cmd)
	}

	cmd, _, err = inboundToCommand(inboundEnvelope(t, proto.InboundMessagePrivate, 5, proto.MessagePrivateData{RecipientID: "b", Message: "psst"}))
	if err != nil {
		t.Fatalf("map private: %v", err)
	}
	if cmd.Kind != core.CommandSendPrivate || cmd.RecipientID != "b" {
		t.Fatalf("unexpected command: %+v", cmd)
	}

	cmd, _, err = inboundToCommand(inboundEnvelope(t, proto.InboundMessageReact, 0, proto.MessageReactData{MessageID: "m1", Reaction: "👍", Remove: true}))
	if err != nil {
		t.Fatalf("map react: %v", err)
	}
	if cmd.Kind != core.CommandReact || cmd.MessageID != "m1" || cmd.Emoji != "👍" || !cmd.Remove {
		t.Fatalf("unexpected command: %+v", cmd)
	}

	cmd, _, err = inboundToCommand(inboundEnvelope(t, proto.InboundMessagesLoad, 6, proto.MessagesLoadData{Room: "r1", Limit: 20, Before: "m9"}))
	if err != nil {
		t.Fatalf("map load: %v", err)
	}
	if cmd.Kind != core.CommandLoadHistory || cmd.Limit != 20 || cmd.BeforeID != "m9" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestInboundToCommandTypingWithoutData(t *testing.T) {
	cmd, protoErr, err := inboundToCommand(proto.Inbound{Type: proto.InboundTypingStart})
	if err != nil || protoErr != nil {
		t.Fatalf("typing without payload should map: %v %v", err, protoErr)
	}
	if cmd.Kind != core.CommandTypingStart || cmd.RoomID != "" || cmd.RecipientID != "" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestInboundToCommandUnknownType(t *testing.T) {
	_, protoErr, err := inboundToCommand(proto.Inbound{Type: "bogus"})
	if err != nil || protoErr == nil || protoErr.Code != "invalid_message" {
		t.Fatalf("expected invalid_message, got %v %v", err, protoErr)
	}
}

func TestOutboundFromMessageEvent(t *testing.T) {
	msg := core.Message{
		ID:        "m1",
		SenderID:  "a",
		Sender:    "alice",
		Body:      "hi",
		Room:      core.GlobalRoomID,
		Kind:      core.KindText,
		CreatedAt: time.Unix(100, 0),
		Reactions: map[string][]string{"👍": {"bob"}},
		ReadBy:    map[string]struct{}{"a": {}, "b": {}},
	}

	out := outboundFromEvent(&core.Event{Kind: core.EventMessage, Message: msg})
	if out.Type != proto.OutboundTypeEvent || out.Event != proto.EventMessageReceive {
		t.Fatalf("unexpected envelope: %+v", out)
	}
	wire, ok := out.Data.(proto.Message)
	if !ok {
		t.Fatalf("unexpected data type: %T", out.Data)
	}
	if wire.ID != "m1" || wire.Username != "alice" || wire.Timestamp != 100 {
		t.Fatalf("unexpected wire message: %+v", wire)
	}
	if wire.ReadCount != 2 || len(wire.ReadBy) != 2 || wire.ReadBy[0] != "a" {
		t.Fatalf("read-by not normalized: %+v", wire)
	}
}

func TestOutboundFromAckAndError(t *testing.T) {
	out := outboundFromEvent(&core.Event{Kind: core.EventAck, Seq: 7, Ack: &core.Ack{OK: true, MessageID: "m1"}})
	if out.Type != proto.OutboundTypeAck || out.Seq != 7 {
		t.Fatalf("unexpected ack envelope: %+v", out)
	}
	ack := out.Data.(proto.Ack)
	if !ack.Success || ack.MessageID != "m1" {
		t.Fatalf("unexpected ack: %+v", ack)
	}

	out = outboundFromEvent(&core.Event{Kind: core.EventError, Seq: 8, Error: &core.CoreError{Code: core.ErrCodeBadRequest, Message: "nope"}})
	if out.Type != proto.OutboundTypeError || out.Error == nil || out.Error.Code != core.ErrCodeBadRequest {
		t.Fatalf("unexpected error envelope: %+v", out)
	}
}

func TestOutboundFromSessionCreated(t *testing.T) {
	u := core.User{ID: "a", Username: "alice", Status: core.StatusOnline, Rooms: map[string]struct{}{core.GlobalRoomID: {}}}

	out := outboundFromEvent(&core.Event{Kind: core.EventSessionCreated, Seq: 2, User: u, Users: []core.User{u}})
	if out.Event != proto.EventUserJoined || out.Seq != 2 {
		t.Fatalf("unexpected envelope: %+v", out)
	}
	data := out.Data.(proto.EventSessionCreated)
	if data.UserID != "a" || len(data.Users) != 1 || data.User.Rooms[0] != core.GlobalRoomID {
		t.Fatalf("unexpected payload: %+v", data)
	}
}
