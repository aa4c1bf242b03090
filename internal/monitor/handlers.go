package monitor

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sorelhq/sorel/internal/logging"
)

// Handler provides HTTP endpoints for RPC monitoring.
type Handler struct {
	monitor *Monitor
	store   CheckStore
}

// NewHandler creates a monitoring handler.
func NewHandler(monitor *Monitor, store CheckStore) *Handler {
	return &Handler{monitor: monitor, store: store}
}

// RegisterRoutes sets up monitoring endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/monitor/rpc", h.GetRPCHealth)
	r.GET("/monitor/uptime", h.GetUptime)
}

// GetRPCHealth runs a live health check against the RPC endpoint.
// GET /v1/monitor/rpc
func (h *Handler) GetRPCHealth(c *gin.Context) {
	result, err := h.monitor.CheckAndStore(c.Request.Context())
	if err != nil {
		logging.L(c.Request.Context()).Error("failed to store rpc check", "error", err)
	}

	// The check itself never fails; an unreachable endpoint is an
	// unhealthy result, not an HTTP error.
	c.JSON(http.StatusOK, result)
}

// GetUptime returns uptime statistics over a window of hours.
// GET /v1/monitor/uptime?hours=24
func (h *Handler) GetUptime(c *gin.Context) {
	hours := 24
	if v := c.Query("hours"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 24*30 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_hours",
				"message": "hours must be a positive integer up to 720",
			})
			return
		}
		hours = parsed
	}

	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	checks, err := h.store.Recent(c.Request.Context(), since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to query check history",
		})
		return
	}

	c.JSON(http.StatusOK, ComputeUptime(checks, hours))
}
