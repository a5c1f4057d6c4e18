package engine

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client is a single authenticated real-time connection. Writes are
// serialized through the client mutex.
type Client struct {
	UserID string

	mu   sync.Mutex
	conn *websocket.Conn
	hook func(Frame)
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{UserID: userID, conn: conn}
}

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(Frame)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

// Send delivers a frame to the connection. Send errors are swallowed; a
// dead viewer is cleaned up by its own read loop.
func (c *Client) Send(frame Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(frame)
		return
	}
	if c.conn == nil {
		return
	}
	_ = c.conn.WriteJSON(frame)
}
