// Package websocket serves the live dashboard. Every connection gets its own
// table view and analytics tracker over the shared expense store and is
// pushed a fresh state message after each change.
package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"expenses/internal/log"
)

const (
	// writeWait is time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// pongWait is time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds a single command frame. Bulk deletes go through
	// the selection, so commands stay small.
	maxMessageSize = 4096

	sendBuffer = 16
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// Client is a single WebSocket connection.
type Client struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	logger    *log.Logger
	closed    bool
	mu        sync.RWMutex
	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, logger *log.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		logger: logger.With(log.FieldSessionID, id),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send queues a message. A full buffer means the peer is too slow and the
// message is refused.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// Close closes the connection. Safe to call from several goroutines.
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		closeErr = c.conn.Close()
	})
	return closeErr
}

func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// ReadPump hands every text frame to handle until the peer goes away.
// It blocks; run it on the connection goroutine.
func (c *Client) ReadPump(handle func([]byte)) {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket unexpected close", log.FieldError, err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		handle(data)
	}
}

// WritePump drains the send queue and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn("WebSocket write error", log.FieldError, err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
