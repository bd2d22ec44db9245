package infrastructure

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"dareNowConsole/internal/modules/session/domain"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Command is a message sent by a stream client, e.g. {"action":"recheck"}.
type Command struct {
	Action string `json:"action"`
}

// CommandHandler answers a client command; the returned value, if any, is sent back.
type CommandHandler func(c *Client, cmd Command) any

// Client is one websocket connection on the session stream.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	id        string
	variant   domain.Variant
	commands  CommandHandler
	closeOnce sync.Once

	mu     sync.Mutex
	closed bool
}

// NewClient creates a stream client. An empty variant follows both sessions.
func NewClient(hub *Hub, conn *websocket.Conn, variant domain.Variant, buf int, commands CommandHandler) *Client {
	if buf <= 0 {
		buf = 16
	}
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, buf),
		id:       uuid.NewString(),
		variant:  variant,
		commands: commands,
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) Variant() domain.Variant {
	return c.variant
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// enqueue queues data without blocking. It reports false only when the buffer is full; a
// closed client drops data silently.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// SendJSON queues v for the client, dropping the client when its buffer is full.
func (c *Client) SendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("websocket marshal error", slog.Any("error", err))
		return
	}
	if !c.enqueue(data) {
		slog.Warn("websocket send buffer full", slog.String("clientId", c.id))
		go c.hub.detachClient(c)
	}
}

func (c *Client) WritePump() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("websocket write error", slog.Any("error", err))
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Warn("websocket ping error", slog.Any("error", err))
				return
			}
		}
	}
}

func (c *Client) ReadPump() {
	c.conn.SetReadLimit(1 << 12)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	defer c.hub.detachClient(c)
	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read error", slog.String("clientId", c.id), slog.Any("error", err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		cmd.Action = strings.ToLower(strings.TrimSpace(cmd.Action))
		if c.commands == nil || cmd.Action == "" {
			continue
		}
		if reply := c.commands(c, cmd); reply != nil {
			c.SendJSON(reply)
		}
	}
}
