package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/streampulse/account-service/pkg/redis"
)

// HealthHandler reports liveness of the service and its dependencies.
type HealthHandler struct {
	db    *gorm.DB
	cache redis.Client
}

func NewHealthHandler(db *gorm.DB, cache redis.Client) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
	}
}

// Check pings the database and cache. A degraded cache does not fail the
// check because the service runs without it.
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "up"
	cacheStatus := "disabled"

	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}

	if h.cache != nil && h.cache.IsEnabled() {
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			cacheStatus = "down"
		} else {
			cacheStatus = "up"
		}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":    overall,
		"database":  dbStatus,
		"cache":     cacheStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
