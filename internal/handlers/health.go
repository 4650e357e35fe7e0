package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkalmar/homescope/internal/database"
	"github.com/dkalmar/homescope/internal/middleware"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "0.1.0"
	// HealthCheckTimeout is the timeout for database health checks
	HealthCheckTimeout = 2 * time.Second
)

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	db              *database.Database
	startTime       time.Time
	env             string
	freshnessWindow time.Duration
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(db *database.Database, env string, freshnessWindow time.Duration) *HealthHandler {
	return &HealthHandler{
		db:              db,
		startTime:       time.Now(),
		env:             env,
		freshnessWindow: freshnessWindow,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
// The search ledger and the listing store share one database, so a single
// ping covers both.
type ReadyResponse struct {
	Status string `json:"status"`
	Ledger string `json:"ledger"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version         string `json:"version"`
	Environment     string `json:"environment"`
	Uptime          string `json:"uptime"`
	FreshnessWindow string `json:"freshness_window"`
}

// Health handles GET /health endpoint.
// This is a basic liveness check that always returns 200 OK without touching
// any dependency.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready endpoint.
// Returns 200 OK when the ledger database answers a ping, 503 otherwise.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		if log := middleware.GetLogger(c); log != nil {
			log.Error("Ledger database health check failed", err, map[string]interface{}{
				"timeout": HealthCheckTimeout.String(),
			})
		}

		c.JSON(http.StatusServiceUnavailable, ReadyResponse{
			Status: "not_ready",
			Ledger: "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, ReadyResponse{
		Status: "ready",
		Ledger: "connected",
	})
}

// Info handles GET /api/v1/info endpoint.
// Returns API metadata including version, environment, uptime, and the
// configured cache freshness window.
func (h *HealthHandler) Info(c *gin.Context) {
	uptime := time.Since(h.startTime)

	c.JSON(http.StatusOK, InfoResponse{
		Version:         APIVersion,
		Environment:     h.env,
		Uptime:          formatUptime(uptime),
		FreshnessWindow: h.freshnessWindow.String(),
	})
}

// formatUptime formats a duration into a human-readable string.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
