package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/playpool/billiards/internal/auth"
	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/game"
	"github.com/playpool/billiards/internal/storage"
	"github.com/playpool/billiards/internal/ws"
)

var logger = log.WithPrefix("api")

// CreateSession racks a new table and returns the tokens needed to play it
func CreateSession(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			DisplayName string `json:"display_name"`
		}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
		}

		name := normalizePlayerName(req.DisplayName)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Player name must be 1-32 letters, digits, spaces or . _ -"})
			return
		}

		ls, err := game.Manager.CreateSession(c.Request.Context(), name)
		if errors.Is(err, game.ErrTooManySessions) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Too many active sessions, try again later"})
			return
		}
		if err != nil {
			logger.Error("create session failed", "player", name, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}

		ttl := time.Duration(cfg.SessionTimeoutMin) * time.Minute
		pt, exp, err := auth.IssuePlayerToken(cfg.JWTSecret, ls.Token, name, ttl)
		if err != nil {
			logger.Error("failed to sign player token", "err", err)
			game.Manager.EndSession(c.Request.Context(), ls.Token, game.StatusClosed)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"token":        ls.Token,
			"player":       name,
			"player_token": pt,
			"expires_at":   exp.UTC().Format(time.RFC3339),
			"ws_url":       "/api/v1/sessions/" + ls.Token + "/ws?pt=" + pt,
			"state":        ls.Summary(),
		})
	}
}

// GetSessionState returns a live session, or the cached or stored record of
// one that is no longer hosted here.
func GetSessionState(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")

		if ls, err := game.Manager.GetSession(token); err == nil {
			c.JSON(http.StatusOK, gin.H{
				"source":        "live",
				"token":         ls.Token,
				"player":        ls.Player,
				"status":        ls.Status(),
				"created_at":    ls.CreatedAt,
				"last_activity": ls.LastActivity(),
				"state":         ls.Summary(),
			})
			return
		}

		if cached, err := game.Manager.LoadCachedSession(c.Request.Context(), token); err == nil {
			c.JSON(http.StatusOK, gin.H{"source": "cache", "token": token, "state": cached})
			return
		}

		if store != nil {
			gs, err := store.GetSession(c.Request.Context(), token)
			if err == nil {
				c.JSON(http.StatusOK, gin.H{"source": "history", "token": token, "session": gs})
				return
			}
			if !errors.Is(err, storage.ErrNotFound) {
				logger.Error("session lookup failed", "token", token, "err", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
				return
			}
		}

		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	}
}

// HandleSessionWebSocket handles real-time session traffic
func HandleSessionWebSocket(cfg *config.Config) gin.HandlerFunc {
	return ws.HandleWebSocket(cfg)
}
