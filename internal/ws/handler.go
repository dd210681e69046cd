package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/playpool/billiards/internal/game"
)

var logger = log.WithPrefix("ws")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is checked by middleware.WebSocketCORSCheck
	},
}

// Client represents a connected WebSocket client
type Client struct {
	conn         *websocket.Conn
	id           string
	player       string
	sessionToken string
	send         chan []byte
}

// Hub maintains the set of active clients grouped by session
type Hub struct {
	clients    map[string]*Client            // client ID -> Client
	rooms      map[string]map[string]*Client // session token -> client ID -> Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// BroadcastToSession sends already-encoded data to every client of a session.
// Slow clients drop messages rather than stall the frame loop.
func (h *Hub) BroadcastToSession(token string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[token] {
		select {
		case client.send <- data:
		default:
			logger.Debug("client send buffer full, dropping message", "client", client.id, "session", token)
		}
	}
}

// SendToClient encodes message and sends it to one client
func (h *Hub) SendToClient(clientID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("error marshaling message", "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[clientID]
	if !exists {
		logger.Debug("SendToClient: no such client", "client", clientID)
		return
	}
	select {
	case client.send <- data:
	default:
		logger.Warn("SendToClient dropped message (buffer full)", "client", clientID)
	}
}

// RoomSize returns how many clients watch a session
func (h *Hub) RoomSize(token string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[token])
}

// WSMessage is every client -> server message
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// PointerData is the payload of a "pointer" message, in table pixels.
// Button follows DOM numbering: 0 primary, 1 middle, 2 secondary.
type PointerData struct {
	Action string  `json:"action"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button int     `json:"button"`
}

// InputEvent converts the payload to a game event.
func (p PointerData) InputEvent() (game.InputEvent, bool) {
	action, ok := game.ParsePointerAction(p.Action)
	if !ok {
		return game.InputEvent{}, false
	}
	var button game.Button
	switch p.Button {
	case 0:
		button = game.ButtonPrimary
	case 1:
		button = game.ButtonMiddle
	case 2:
		button = game.ButtonSecondary
	default:
		return game.InputEvent{}, false
	}
	ev := game.InputEvent{Action: action, Button: button}
	ev.Pos.X, ev.Pos.Y = p.X, p.Y
	return ev, true
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Debug("write error", "client", c.id, "err", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Debug("ping error", "client", c.id, "err", err)
				return
			}
		}
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
	select {
	case c.send <- data:
	default:
	}
}
