package insights

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sorelhq/sorel/internal/reputation"
)

// Handler provides the HTTP endpoint for wallet insights.
type Handler struct {
	svc     *Service
	wallets reputation.WalletStore
}

// NewHandler creates an insights handler.
func NewHandler(svc *Service, wallets reputation.WalletStore) *Handler {
	return &Handler{svc: svc, wallets: wallets}
}

// RegisterRoutes sets up the insights endpoint.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/wallets/:address/insights", h.GetWalletInsights)
}

// GetWalletInsights returns AI-generated analysis for an analyzed wallet.
// GET /v1/wallets/:address/insights
func (h *Handler) GetWalletInsights(c *gin.Context) {
	address := c.Param("address")

	rec, err := h.wallets.Get(c.Request.Context(), address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to look up wallet",
		})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "wallet_not_found",
			"message": "Wallet must be analyzed before requesting insights",
		})
		return
	}

	result, err := h.svc.GenerateInsights(c.Request.Context(), rec)
	if err != nil {
		if errors.Is(err, ErrAIUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "ai_unavailable",
				"message": "AI insights are currently unavailable",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "insights_failed",
			"message": "Failed to generate insights",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":  rec.Address,
		"score":    rec.Score,
		"insights": result,
	})
}
