package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024
	sendBuffer = 256
)

// Client is one live connection. conn is nil for in-process test clients.
type Client struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte

	done     chan struct{}
	doneOnce sync.Once
}

func NewClient(userID int64, conn *websocket.Conn) *Client {
	return &Client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

func (c *Client) UserID() int64 { return c.userID }

// Outbox exposes queued frames; used by tests and in-process consumers.
func (c *Client) Outbox() <-chan []byte { return c.send }

func (c *Client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Send queues an event for this connection only.
func (c *Client) Send(event Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		return false
	}
	return c.enqueue(data)
}

func (c *Client) close() {
	c.doneOnce.Do(func() { close(c.done) })
}

// FrameHandler processes one client frame.
type FrameHandler func(c *Client, raw []byte)

// Serve registers the connection and pumps frames until it closes.
func (h *Hub) Serve(c *Client, handle FrameHandler) {
	if prev := h.Register(c); prev != nil {
		log.Printf("ws_replaced user_id=%d", c.userID)
	}
	log.Printf("ws_connected user_id=%d online=%d", c.userID, h.Count())

	go c.writePump()
	c.readPump(handle)

	h.Unregister(c)
	log.Printf("ws_disconnected user_id=%d online=%d", c.userID, h.Count())
}

func (c *Client) readPump(handle FrameHandler) {
	defer func() {
		c.close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws_read_error user_id=%d error=%q", c.userID, err)
			}
			return
		}
		handle(c, raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
