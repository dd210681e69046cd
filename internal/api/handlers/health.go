package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playpool/billiards/internal/game"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck returns server health status. Unreachable backing services
// degrade the status but never fail the probe.
func HealthCheck(db *sqlx.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		checks := gin.H{}
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				checks["database"] = err.Error()
				status = "degraded"
			} else {
				checks["database"] = "ok"
			}
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				checks["redis"] = err.Error()
				status = "degraded"
			} else {
				checks["redis"] = "ok"
			}
		}

		active := 0
		if game.Manager != nil {
			active = game.Manager.ActiveCount()
		}

		c.JSON(http.StatusOK, gin.H{
			"status":          status,
			"service":         "billiards-api",
			"version":         version,
			"uptime":          time.Since(startTime).String(),
			"active_sessions": active,
			"checks":          checks,
		})
	}
}
