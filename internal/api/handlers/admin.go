package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playpool/billiards/internal/admin"
	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/game"
)

// AdminAuthMiddleware validates the X-Admin-Name / X-Admin-Token pair
func AdminAuthMiddleware(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Admin API requires a database"})
			return
		}

		name := strings.TrimSpace(c.GetHeader("X-Admin-Name"))
		token := strings.TrimSpace(c.GetHeader("X-Admin-Token"))
		if name == "" || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		acc, err := admin.ValidateAdminNameAndToken(c.Request.Context(), db, name, token)
		if err != nil {
			admin.LogAdminAction(c.Request.Context(), db, name, c.ClientIP(), c.FullPath(), "auth", nil, false)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		c.Set("admin_name", acc.Name)
		c.Set("admin_account", acc)
		c.Next()
	}
}

// AdminListSessions lists the sessions hosted by this instance
func AdminListSessions() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"active": game.Manager.ActiveCount()})
	}
}

// AdminCloseSession force-closes a live session
func AdminCloseSession(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminName := c.GetString("admin_name")
		token := c.Param("token")
		route := "/api/v1/admin/sessions/" + token
		details := map[string]interface{}{"token": token}

		err := game.Manager.EndSession(c.Request.Context(), token, game.StatusClosed)
		if errors.Is(err, game.ErrSessionNotFound) {
			admin.LogAdminAction(c.Request.Context(), db, adminName, c.ClientIP(), route, "close_session", details, false)
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		if err != nil {
			logger.Error("admin close failed", "token", token, "err", err)
			admin.LogAdminAction(c.Request.Context(), db, adminName, c.ClientIP(), route, "close_session", details, false)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close session"})
			return
		}

		admin.LogAdminAction(c.Request.Context(), db, adminName, c.ClientIP(), route, "close_session", details, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// GetAdminAuditLogs returns paginated audit log entries
func GetAdminAuditLogs(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseLimit(c.Query("limit"), 25, 200)
		offset := parseLimit(c.Query("offset"), 0, 1<<30)

		logs, err := admin.GetAdminAuditLogs(c.Request.Context(), db, limit, offset)
		if err != nil {
			logger.Error("failed to fetch audit logs", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs": logs, "limit": limit, "offset": offset})
	}
}

// GetAdminRuntimeConfig returns all runtime config entries
func GetAdminRuntimeConfig(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		configs, err := admin.GetAllRuntimeConfig(c.Request.Context(), db)
		if err != nil {
			logger.Error("failed to fetch runtime config", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch config"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"configs": configs})
	}
}

// UpdateAdminRuntimeConfig updates a single runtime config value
func UpdateAdminRuntimeConfig(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminName := c.GetString("admin_name")
		key := c.Param("key")
		route := "/api/v1/admin/config/" + key

		var req struct {
			Value string `json:"value" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Value is required"})
			return
		}
		details := map[string]interface{}{"key": key, "value": req.Value}

		if err := admin.UpdateRuntimeConfigValue(c.Request.Context(), db, key, req.Value, adminName); err != nil {
			admin.LogAdminAction(c.Request.Context(), db, adminName, c.ClientIP(), route, "update_config", details, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := admin.ApplyRuntimeConfigToConfig(c.Request.Context(), db, cfg); err != nil {
			logger.Warn("failed to apply runtime config", "err", err)
		}

		admin.LogAdminAction(c.Request.Context(), db, adminName, c.ClientIP(), route, "update_config", details, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
