// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"alcosklad/internal/recordstore"
)

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	store *recordstore.Client
	rdb   *redis.Client // nil when the durable cache layer is disabled
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store *recordstore.Client, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{store: store, rdb: rdb}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()
	checks := map[string]string{}
	healthy := true

	if err := h.store.Health(ctx); err != nil {
		checks["record_store"] = "unhealthy: " + err.Error()
		healthy = false
	} else {
		checks["record_store"] = "healthy"
	}

	// Redis is best-effort cache durability: report it, but an outage
	// does not make the service unready.
	if h.rdb != nil {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			checks["redis"] = "degraded: " + err.Error()
		} else {
			checks["redis"] = "healthy"
		}
	}

	status := http.StatusOK
	statusText := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		statusText = "error"
	}
	c.JSON(status, gin.H{
		"status": statusText,
		"checks": checks,
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":     "alcosklad",
		"version": "0.1.0",
	})
}
