package api

import (
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playpool/billiards/internal/api/handlers"
	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/middleware"
	"github.com/playpool/billiards/internal/storage"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes. db and rdb may be nil when the
// server runs without Postgres or Redis.
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, store *storage.Store, cfg *config.Config, profile config.Profile) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.WithPrefix("api").Info("dev mode: no-cache headers enabled")
	}

	router.GET("/health", handlers.HealthCheck(db, rdb))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(db, rdb))
		v1.GET("/config", handlers.GetConfig(cfg, profile))
		v1.GET("/leaderboard", handlers.GetLeaderboard())

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handlers.CreateSession(cfg))
			sessions.GET("/:token", handlers.GetSessionState(store))
			sessions.GET("/:token/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleSessionWebSocket(cfg))
		}

		adminGroup := v1.Group("/admin", handlers.AdminAuthMiddleware(db))
		{
			adminGroup.GET("/sessions", handlers.AdminListSessions())
			adminGroup.DELETE("/sessions/:token", handlers.AdminCloseSession(db))
			adminGroup.GET("/audit", handlers.GetAdminAuditLogs(db))
			adminGroup.GET("/config", handlers.GetAdminRuntimeConfig(db))
			adminGroup.PUT("/config/:key", handlers.UpdateAdminRuntimeConfig(db, cfg))
		}
	}
}
