package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	redisclient "user-rest-service/pkg/redis"
)

// HealthHandler reports process liveness plus backend reachability.
type HealthHandler struct {
	db  *gorm.DB
	rdb *redisclient.Client
}

// NewHealthHandler creates a new HealthHandler. rdb may be nil when caching
// is disabled.
func NewHealthHandler(db *gorm.DB, rdb *redisclient.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Check handles GET /health. A dead database makes the service unhealthy; a
// dead cache does not, since every read falls back to the database.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()

	dbStatus := "up"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		dbStatus = "down"
	}

	cacheStatus := "disabled"
	if h.rdb != nil {
		cacheStatus = "up"
		if !h.rdb.Healthy(ctx) {
			cacheStatus = "down"
		}
	}

	status := http.StatusOK
	overall := "healthy"
	if dbStatus == "down" {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":   overall,
		"database": dbStatus,
		"cache":    cacheStatus,
	})
}
