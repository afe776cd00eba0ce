package handler

import (
	"log/slog"
	"net/http"

	"gnacomplaints/backend/internal/livehub"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWebSocket upgrades a list page to the live complaint feed. The page
// passes its viewer token as ?token=.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	viewerID, err := h.Tokens.Validate(c.Query("token"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		slog.Warn("websocket upgrade failed", "viewer", viewerID, "error", err)
		return
	}

	client := livehub.NewWebSocketClient(uuid.NewString(), conn, h.Hub)
	if !h.Hub.Register(client) {
		conn.Close()
		return
	}
	slog.Debug("viewer connected", "viewer", viewerID, "client", client.ID)
	client.Run()
}
