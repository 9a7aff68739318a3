// Package handlers provides HTTP request handlers.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockview/internal/infrastructure/cache"
)

// BackendPinger reports whether the backend answers.
type BackendPinger interface {
	Version(ctx context.Context) (map[string]any, error)
}

// SnapshotInspector exposes snapshot freshness.
type SnapshotInspector interface {
	GetStats() cache.Stats
	OnDemand() bool
	OldestFetch() (time.Time, bool)
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	backend   BackendPinger
	snapshots SnapshotInspector
	maxAge    time.Duration
	version   string
	now       func() time.Time
}

// NewHealthHandler creates a health handler. backend and snapshots may be nil;
// maxAge of zero disables the staleness check.
func NewHealthHandler(backend BackendPinger, snapshots SnapshotInspector, maxAge time.Duration, version string) *HealthHandler {
	return &HealthHandler{
		backend:   backend,
		snapshots: snapshots,
		maxAge:    maxAge,
		version:   version,
		now:       time.Now,
	}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe: backend reachable and snapshots fresh.
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := map[string]string{}
	healthy := true

	if h.backend != nil {
		if _, err := h.backend.Version(c.Request.Context()); err != nil {
			checks["backend"] = "unhealthy: " + err.Error()
			healthy = false
		} else {
			checks["backend"] = "healthy"
		}
	}

	if h.snapshots != nil && h.maxAge > 0 {
		oldest, ok := h.snapshots.OldestFetch()
		switch {
		case h.snapshots.OnDemand():
			checks["snapshots"] = "on-demand"
		case !ok:
			checks["snapshots"] = "not loaded"
			healthy = false
		case h.now().Sub(oldest) > h.maxAge:
			checks["snapshots"] = "stale since " + oldest.UTC().Format(time.RFC3339)
			healthy = false
		default:
			checks["snapshots"] = "fresh"
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	body := gin.H{
		"app":     "stockview",
		"version": h.version,
	}
	if h.snapshots != nil {
		body["snapshots"] = h.snapshots.GetStats().Collections
	}
	c.JSON(http.StatusOK, body)
}
