package broadcast

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the transport handle the hub fans out to. Production wraps a
// WebSocket; tests substitute fakes.
type Conn interface {
	// WriteJSON sends one JSON message. An error marks the connection
	// dead and the hub prunes it.
	WriteJSON(v any) error

	// Close tears the connection down. Closing twice is harmless.
	Close() error
}

// WSConn adapts a gorilla WebSocket connection to Conn. The hub's
// heartbeat and broadcast goroutines write concurrently, so every write
// is serialized under a mutex with a fresh deadline.
type WSConn struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
}

// NewWSConn wraps ws for use with the hub.
func NewWSConn(ws *websocket.Conn, writeTimeout time.Duration) *WSConn {
	return &WSConn{conn: ws, writeTimeout: writeTimeout}
}

// WriteJSON sends one JSON message under the write deadline.
func (c *WSConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Close closes the underlying WebSocket.
func (c *WSConn) Close() error {
	return c.conn.Close()
}
