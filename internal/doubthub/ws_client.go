package doubthub

import (
	"encoding/json"
	"log"
	"time"

	"doubtroom/backend/internal/config"
	"doubtroom/backend/internal/models"

	"github.com/gorilla/websocket"
)

// WebSocketClient implements the Client interface over gorilla/websocket.
type WebSocketClient struct {
	ConnID string
	UserID string
	Name   string
	Role   string

	Conn *websocket.Conn
	Hub  *Hub
	Send chan models.Event
}

func (c *WebSocketClient) GetConnID() string                   { return c.ConnID }
func (c *WebSocketClient) GetUserID() string                   { return c.UserID }
func (c *WebSocketClient) GetName() string                     { return c.Name }
func (c *WebSocketClient) GetRole() string                     { return c.Role }
func (c *WebSocketClient) GetSendChannel() chan<- models.Event { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops the write pump. The read pump
// stops on its own once the underlying connection is closed.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

// readPump reads commands off the websocket and hands them to the hub. On any
// read error the connection is unregistered, which runs the disconnect
// sequence for whatever room the connection was in.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var cmd models.Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			log.Printf("Error decoding JSON from client %s: %v", c.ConnID, err)
			continue // skip the malformed message
		}

		c.Hub.CommandCh <- InboundCommand{Client: c, Command: cmd}
	}
}

// writePump drains the Send channel into the websocket and keeps the
// connection alive with periodic pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(config.PingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				// Channel closed by the hub, close the WS connection.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteJSON(event); err != nil {
				log.Printf("Error encoding JSON for client %s: %v", c.ConnID, err)
				return
			}

			// Flush anything else already queued, one frame per event.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				if err := c.Conn.WriteJSON(<-c.Send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
