package websocket

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// MessageHandler processes one inbound text frame. It runs on its own
// goroutine; ctx is cancelled when the connection goes away.
type MessageHandler func(ctx context.Context, c *Client, data []byte)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	SessionID string

	// Buffered channel of outbound messages. Never closed; done ends the writer.
	Send chan []byte
	done chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	busy   atomic.Bool
}

func newClient(hub *Hub, conn *websocket.Conn, sessionID string) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		Hub:       hub,
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Emit queues a frame for this connection only. It drops the frame when
// the send buffer is full.
func (c *Client) Emit(frame interface{}) bool {
	data, err := json.Marshal(frame)
	if err != nil {
		return false
	}
	return c.enqueue(data)
}

// EmitFinal queues the frame that ends a turn. Unlike Emit it waits for
// room in the buffer, giving up only when the connection closes.
func (c *Client) EmitFinal(frame interface{}) bool {
	data, err := json.Marshal(frame)
	if err != nil {
		return false
	}
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Send <- data:
		return true
	case <-c.done:
		return false
	}
}

func (c *Client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Send <- data:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// TryBegin marks the client busy with a turn; it fails if one is running.
func (c *Client) TryBegin() bool {
	return c.busy.CompareAndSwap(false, true)
}

func (c *Client) End() {
	c.busy.Store(false)
}

// readPump pumps messages from the websocket connection to the handler.
func (c *Client) readPump(handle MessageHandler) {
	defer func() {
		c.Hub.unregister <- c
		c.cancel()
		close(c.done)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			return
		}
		if msgType != websocket.TextMessage || handle == nil {
			continue
		}
		go handle(c.ctx, c, data)
	}
}

// writePump pumps messages from the hub to the websocket connection.
// Each frame is written as its own websocket message.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
