package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pulsechat/server/internal/config"
	"github.com/pulsechat/server/internal/core"
	"github.com/pulsechat/server/internal/metrics"
)

// NewServer builds the HTTP server: websocket endpoint, REST read endpoints,
// health, and metrics.
func NewServer(hub *core.Hub, m *metrics.Set, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(stdhttp.StatusOK, gin.H{"status": "online"})
	})
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg.MaxMessageBytes, cfg.EventBuffer, logger)))
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := NewAPIHandlers(hub, logger)
	group := router.Group("/api")
	group.GET("/rooms", api.ListRooms)
	group.GET("/users", api.ListUsers)
	group.GET("/rooms/:id/messages/search", api.SearchMessages)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
