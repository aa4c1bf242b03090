package analytics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sorelhq/sorel/internal/history"
	"github.com/sorelhq/sorel/internal/logging"
)

// Handler provides HTTP endpoints for platform analytics.
type Handler struct {
	svc *Service
}

// NewHandler creates an analytics handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes sets up analytics endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/analytics/stats", h.GetStats)
	r.GET("/analytics/trends", h.GetTrends)
}

// GetStats returns platform-wide statistics.
// GET /v1/analytics/stats
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		logging.L(c.Request.Context()).Error("stats query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to compute platform statistics",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetTrends returns day-bucketed reputation trends.
// GET /v1/analytics/trends?days=7
func (h *Handler) GetTrends(c *gin.Context) {
	days := DefaultTrendDays
	if d := c.Query("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed <= 0 || parsed > MaxTrendDays {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_days",
				"message": "days must be an integer between 1 and 365",
			})
			return
		}
		days = parsed
	}

	points, err := h.svc.Trends(c.Request.Context(), days)
	if err != nil {
		logging.L(c.Request.Context()).Error("trends query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to compute reputation trends",
		})
		return
	}

	if points == nil {
		points = []history.TrendPoint{}
	}
	c.JSON(http.StatusOK, gin.H{
		"trends": points,
		"days":   days,
	})
}
