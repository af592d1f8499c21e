package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pulsechat/server/internal/config"
	"github.com/pulsechat/server/internal/core"
	"github.com/pulsechat/server/internal/metrics"
	"github.com/pulsechat/server/internal/proto"
)

func newTestServer(t *testing.T) (*core.Hub, http.Handler) {
	t.Helper()

	hub := core.NewHub(nil, nil, nil, nil, nil)
	cfg := config.Default()
	disabled := zerolog.Nop()
	server := NewServer(hub, metrics.New(), &cfg, &disabled)
	return hub, server.Handler
}

func doGet(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	_, handler := newTestServer(t)

	resp := doGet(t, handler, "/health")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestListRoomsEndpoint(t *testing.T) {
	hub, handler := newTestServer(t)
	hub.Rooms().Create("gophers", "alice", false)
	hub.Rooms().Create("secret", "bob", true)

	resp := doGet(t, handler, "/api/rooms")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var rooms []proto.Room
	if err := json.Unmarshal(resp.Body.Bytes(), &rooms); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("expected global + gophers, got %+v", rooms)
	}
	if rooms[0].ID != core.GlobalRoomID {
		t.Fatalf("expected global first, got %+v", rooms[0])
	}
}

func TestListUsersEndpoint(t *testing.T) {
	hub, handler := newTestServer(t)
	hub.Sessions().Join("s1", "alice", "a.png")

	resp := doGet(t, handler, "/api/users")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var users []proto.User
	if err := json.Unmarshal(resp.Body.Bytes(), &users); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(users) != 1 || users[0].Username != "alice" || users[0].Status != "online" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestSearchMessagesEndpoint(t *testing.T) {
	hub, handler := newTestServer(t)
	hub.History().Append(core.Message{ID: "m1", SenderID: "s1", Sender: "alice", Body: "deploy done", Room: core.GlobalRoomID, Kind: core.KindText})
	hub.History().Append(core.Message{ID: "m2", SenderID: "s1", Sender: "alice", Body: "lunch?", Room: core.GlobalRoomID, Kind: core.KindText})

	resp := doGet(t, handler, "/api/rooms/global/messages/search?q=DEPLOY")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var hits []proto.Message
	if err := json.Unmarshal(resp.Body.Bytes(), &hits); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "m1" {
		t.Fatalf("unexpected hits: %+v", hits)
	}

	if resp := doGet(t, handler, "/api/rooms/global/messages/search"); resp.Code != http.StatusBadRequest {
		t.Fatalf("missing q should be 400, got %d", resp.Code)
	}
	if resp := doGet(t, handler, "/api/rooms/ghost/messages/search?q=x"); resp.Code != http.StatusNotFound {
		t.Fatalf("unknown room should be 404, got %d", resp.Code)
	}
}
