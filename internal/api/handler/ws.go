package handler

import (
	"net/http"

	"doubtroom/backend/internal/config"
	"doubtroom/backend/internal/doubthub"
	"doubtroom/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket authenticates the handshake and upgrades the HTTP connection.
// Identity is resolved exactly once here; every room command on the connection
// trusts it afterwards.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	user, err := h.resolveIdentity(bearerToken(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &doubthub.WebSocketClient{
		ConnID: uuid.New().String(),
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
		Hub:    h.Hub,
		Conn:   conn,
		Send:   make(chan models.Event, config.SendBufferSize),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
