package network

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/emerald/internal/platform/logger"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Client is one connected diagnostics viewer.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// ClientCommand is a message a viewer may send. Only "ping" is understood;
// the hub answers with the latest frame stats.
type ClientCommand struct {
	Type string `json:"type"`
}

// Register adds the client to the hub.
func (c *Client) Register() {
	select {
	case c.hub.register <- c:
	case <-c.hub.done:
		close(c.send)
	}
}

// ReadPump drains the connection and answers viewer commands.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("Diagnostics client read failed", logger.WithField("error", err))
			}
			break
		}
		c.hub.metrics.RecordWSMessage(true)

		var cmd ClientCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.hub.logger.Warn("Ignoring malformed diagnostics command", logger.WithField("error", err))
			continue
		}
		c.handle(cmd)
	}
}

func (c *Client) handle(cmd ClientCommand) {
	switch cmd.Type {
	case "ping":
		payload, err := json.Marshal(Message{Type: MessageFrameStats, Data: c.hub.LastFrame()})
		if err != nil {
			return
		}
		// Replies go through Run so send is never written after close.
		c.hub.mu.Lock()
		if c.hub.clients[c] {
			select {
			case c.send <- payload:
			default:
			}
		}
		c.hub.mu.Unlock()
	default:
		c.hub.logger.Debug("Unknown diagnostics command", logger.WithField("type", cmd.Type))
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
