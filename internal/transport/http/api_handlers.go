package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pulsechat/server/internal/core"
)

// APIHandlers provides read-only REST endpoints over the live stores. The
// stores guard themselves, so these run safely alongside the hub loop.
type APIHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(hub *core.Hub, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{hub: hub, log: logger}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListRooms returns all public rooms.
// GET /api/rooms
func (h *APIHandlers) ListRooms(c *gin.Context) {
	rooms := h.hub.Rooms().ListPublic()
	out := make([]any, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, roomToWire(r))
	}
	c.JSON(http.StatusOK, out)
}

// ListUsers returns every connected session.
// GET /api/users
func (h *APIHandlers) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, usersToWire(h.hub.Sessions().All()))
}

// SearchMessages runs a case-insensitive substring search over one room's
// retained history.
// GET /api/rooms/:id/messages/search?q=
func (h *APIHandlers) SearchMessages(c *gin.Context) {
	roomID := c.Param("id")
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "q is required"})
		return
	}
	if _, ok := h.hub.Rooms().Get(roomID); !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}

	hits := h.hub.History().Search(roomID, query)
	out := make([]any, 0, len(hits))
	for _, m := range hits {
		out = append(out, messageToWire(m))
	}
	c.JSON(http.StatusOK, out)
}
