package ws

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playpool/billiards/internal/auth"
	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/game"
)

// SessionHub is the single hub for all sessions.
var SessionHub *Hub

func init() {
	SessionHub = NewHub()
	go runSessionHub(SessionHub)
}

func newClientID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// HandleWebSocket upgrades GET /sessions/:token/ws?pt=<player token>.
func HandleWebSocket(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		playerToken := c.Query("pt")
		if token == "" || playerToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token and pt required"})
			return
		}

		claims, err := auth.ParsePlayerToken(cfg.JWTSecret, playerToken)
		if err != nil || claims.SessionToken != token {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid player token"})
			return
		}

		if game.Manager == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sessions unavailable"})
			return
		}
		if _, err := game.Manager.GetSession(token); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Error("upgrade error", "err", err)
			return
		}

		client := &Client{
			conn:         conn,
			id:           newClientID(),
			player:       claims.Player,
			sessionToken: token,
			send:         make(chan []byte, 256),
		}

		SessionHub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

func runSessionHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			if _, exists := h.rooms[client.sessionToken]; !exists {
				h.rooms[client.sessionToken] = make(map[string]*Client)
			}
			h.rooms[client.sessionToken][client.id] = client
			size := len(h.rooms[client.sessionToken])
			h.mu.Unlock()

			logger.Info("client connected", "client", client.id, "session", client.sessionToken, "room_size", size)

			if game.Manager != nil {
				if ls, err := game.Manager.GetSession(client.sessionToken); err == nil {
					h.SendToClient(client.id, map[string]interface{}{"type": "state", "data": ls.Summary()})
					game.Manager.Redraw(client.sessionToken)
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.id]; ok && cur == client {
				delete(h.clients, client.id)
				if room, exists := h.rooms[client.sessionToken]; exists {
					delete(room, client.id)
					if len(room) == 0 {
						delete(h.rooms, client.sessionToken)
					}
				}
				close(client.send)
				logger.Info("client disconnected", "client", client.id, "session", client.sessionToken)
			}
			h.mu.Unlock()
		}
	}
}

// readPump reads pointer input from the client.
func (c *Client) readPump() {
	defer func() {
		SessionHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("unexpected close", "client", c.id, "err", err)
			}
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "pointer":
		var data PointerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid pointer data")
			return
		}
		ev, ok := data.InputEvent()
		if !ok {
			c.sendError("Unknown pointer action or button")
			return
		}
		if err := game.Manager.Submit(c.sessionToken, ev); err != nil {
			c.sendSessionError(err)
		}

	case "get_state":
		ls, err := game.Manager.GetSession(c.sessionToken)
		if err != nil {
			c.sendSessionError(err)
			return
		}
		SessionHub.SendToClient(c.id, map[string]interface{}{"type": "state", "data": ls.Summary()})

	case "end_session":
		err := game.Manager.EndSession(context.Background(), c.sessionToken, game.StatusClosed)
		if err != nil {
			c.sendSessionError(err)
		}

	default:
		c.sendError("Unknown message type")
	}
}

func (c *Client) sendSessionError(err error) {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		c.sendError("Session not found")
	case errors.Is(err, game.ErrSessionClosed):
		c.sendError("Session is over")
	default:
		c.sendError(err.Error())
	}
}
