package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"taxiye/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSHandler upgrades passenger connections for ride progress streaming.
type WSHandler struct {
	registry *ws.Registry
	logger   *slog.Logger
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(registry *ws.Registry, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSHandler{registry: registry, logger: logger}
}

// Stream handles GET /v1/users/:id/rides/ws. The connection stays open
// until the client closes it; progress frames for the rider's active ride
// are pushed as they happen.
func (h *WSHandler) Stream(c *gin.Context) {
	riderID := c.Param("id")
	if riderID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "rider id required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}

	h.registry.Add(riderID, conn)

	// Drain the read side so control frames are processed and closure is
	// noticed.
	go func() {
		defer func() {
			h.registry.Remove(riderID, conn)
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
