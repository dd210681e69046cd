package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/physics"
)

// GetConfig returns what a browser front end needs to draw and scale input
func GetConfig(cfg *config.Config, profile config.Profile) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"pixels_per_meter": physics.PixelsPerMeter,
			"frame_rate":       cfg.FrameRate,
			"idle_seconds":     cfg.SessionIdleSeconds,
			"profile":          profile,
		})
	}
}
