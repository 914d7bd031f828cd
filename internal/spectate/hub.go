// Package spectate provides a read-only live race feed over WebSocket.
// The platform pushes race snapshots into the hub; every connected
// spectator receives them as JSON. Spectators never influence the race.
package spectate

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-runner/internal/race"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "spectate"})

// Message is the JSON envelope for everything sent over the socket.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Client represents one connected spectator.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // buffered channel of outbound messages
}

// Hub maintains the set of active spectators and broadcasts snapshots to
// them. Run once as a goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a hub; start it with `go hub.Run()`.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			logger.Info("spectator connected", "count", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				logger.Info("spectator disconnected", "count", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// A full buffer means the client hung; drop it.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// BroadcastSnapshot pushes one race snapshot to every spectator.
// Non-blocking: if the hub's queue is full the frame is skipped, the next
// one carries the fresher state anyway.
func (h *Hub) BroadcastSnapshot(snap race.Snapshot) {
	data, err := json.Marshal(Message{Type: "race_state", Payload: snap})
	if err != nil {
		logger.Warn("cannot encode snapshot", "err", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// ListenAndServe exposes the spectator feed on addr under /ws. Blocks;
// run in a goroutine next to the race loop.
func ListenAndServe(addr string, hub *Hub) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	})
	logger.Info("spectator feed listening", "addr", addr)
	return http.ListenAndServe(addr, mux)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades an HTTP request to a spectator connection.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("upgrade failed", "err", err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection. Incoming messages are discarded; the
// feed is one-way. Reading is still required to notice disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("spectator read error", "err", err)
			}
			return
		}
	}
}

// writePump forwards hub messages to the socket.
func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	// The hub closed the channel; tell the client politely.
	c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
}
