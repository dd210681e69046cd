package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playpool/billiards/internal/game"
)

// GetLeaderboard returns the best finished sessions
func GetLeaderboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseLimit(c.Query("limit"), 10, 100)
		entries, err := game.Manager.Leaderboard(c.Request.Context(), limit)
		if err != nil {
			logger.Error("leaderboard failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leaderboard"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries, "limit": limit})
	}
}
