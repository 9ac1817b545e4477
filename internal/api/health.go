// Package api provides HTTP handlers for the listings service.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PoolStatter is implemented by stores backed by a connection pool.
type PoolStatter interface {
	PoolStats() (acquired, maxConns int32)
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	store         Pinger
	log           *logrus.Logger
	version       string
	driver        string
	schemaVersion int
	startTime     time.Time
}

// NewHealthHandler creates a HealthHandler. store may be nil.
func NewHealthHandler(store Pinger, log *logrus.Logger, version, driver string, schemaVersion int) *HealthHandler {
	return &HealthHandler{
		store:         store,
		log:           log,
		version:       version,
		driver:        driver,
		schemaVersion: schemaVersion,
		startTime:     time.Now(),
	}
}

// healthResponse is the JSON payload returned by the liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Driver        string  `json:"driver"`
	Database      string  `json:"database"`
	SchemaVersion int     `json:"schema_version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Liveness handles GET /api/v1/health. It always answers 200; the database
// field reports a best-effort ping.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Driver:        h.driver,
		Database:      "connected",
		SchemaVersion: h.schemaVersion,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.store == nil {
		resp.Database = "not_configured"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			resp.Database = "disconnected"
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready. It answers 503 until the store responds.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{"database": "ok"}

	if h.store == nil {
		checks["database"] = "not_configured"
		c.JSON(http.StatusServiceUnavailable, readinessResponse{Status: "not_ready", Checks: checks})

		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.WithError(err).Error("readiness: database ping failed")
		checks["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, readinessResponse{Status: "not_ready", Checks: checks})

		return
	}

	if ps, ok := h.store.(PoolStatter); ok {
		acquired, maxConns := ps.PoolStats()
		checks["pool"] = fmt.Sprintf("%d/%d acquired", acquired, maxConns)
	}

	c.JSON(http.StatusOK, readinessResponse{Status: "ready", Checks: checks})
}
