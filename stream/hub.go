// Package stream serves world snapshots to browser viewers over websockets
// and relays their control commands back to the run loop.
package stream

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// sendBuffer is the number of messages queued per client before new ones
// are dropped for that client.
const sendBuffer = 16

type client struct {
	conn *websocket.Conn
	send chan any
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// writePump owns all writes to the connection.
func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			slog.Debug("stream: write failed", "remote", c.conn.RemoteAddr().String(), "error", err)
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Hub tracks connected clients. Broadcast never blocks on a slow client.
type Hub struct {
	upgrader websocket.Upgrader
	hello    any
	commands chan Command

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates a hub that greets every new client with hello.
func NewHub(hello any) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		hello:    hello,
		commands: make(chan Command, sendBuffer),
		clients:  make(map[*client]struct{}),
	}
}

// Handler returns a mux serving the websocket endpoint at /ws.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	return mux
}

// ServeHTTP upgrades the connection and reads client commands until it
// closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("stream: upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan any, sendBuffer)}
	if h.hello != nil {
		c.send <- h.hello
	}
	if !h.add(c) {
		c.close()
		conn.Close()
		return
	}
	go c.writePump()

	for {
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch cmd := Command(msg.Type); cmd {
		case CommandTrain, CommandPause:
			select {
			case h.commands <- cmd:
			default:
				slog.Warn("stream: command dropped", "command", cmd)
			}
		default:
			slog.Debug("stream: unknown message", "type", msg.Type)
		}
	}

	h.remove(c)
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
}

// Broadcast queues msg for every client. Clients whose queue is full miss
// this message.
func (h *Hub) Broadcast(msg any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Commands delivers client commands in arrival order.
func (h *Hub) Commands() <-chan Command {
	return h.commands
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client. Later connections are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}
