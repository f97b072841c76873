package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"

	"github.com/govoyage/trip-sharing/pkg/logger"
	"github.com/govoyage/trip-sharing/pkg/websocket"
)

// HandleWebSocket handles GET /v1/ws
//
// Clients identify themselves with user_id and channel query parameters
// and then subscribe to individual trips over the socket.
func (h *Handlers) HandleWebSocket(c *gin.Context) {
	if h.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Realtime feed is disabled"})
		return
	}

	upgrader := gorilla.Upgrader{
		ReadBufferSize:  h.WebSocket.ReadBufferSize,
		WriteBufferSize: h.WebSocket.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return true // Allow all origins in development
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Error("Failed to upgrade to WebSocket", logger.Err(err))
		return
	}

	userID := c.Query("user_id")
	channel := c.Query("channel")

	if userID == "" || channel == "" {
		h.Logger.Warn("Missing user_id or channel in WebSocket connection")
		conn.Close()
		return
	}

	client := websocket.NewClient(h.Hub, conn, userID, channel, h.Logger)
	h.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
