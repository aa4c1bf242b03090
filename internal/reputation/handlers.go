package reputation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sorelhq/sorel/internal/history"
	"github.com/sorelhq/sorel/internal/logging"
)

// Handler provides HTTP endpoints for wallet reputation.
type Handler struct {
	svc     *Service
	history history.Store
}

// NewHandler creates a reputation handler.
func NewHandler(svc *Service, hist history.Store) *Handler {
	return &Handler{svc: svc, history: hist}
}

// RegisterRoutes sets up wallet endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/wallets/analyze", h.AnalyzeWallet)
	r.GET("/wallets/leaderboard", h.GetLeaderboard)
	r.GET("/wallets/:address", h.GetWallet)
	r.GET("/wallets/:address/history", h.GetWalletHistory)
}

// AnalyzeRequest is the body of POST /v1/wallets/analyze.
type AnalyzeRequest struct {
	Address string `json:"wallet_address" binding:"required"`
}

// AnalyzeWallet analyzes a wallet and returns its reputation record.
// POST /v1/wallets/analyze
func (h *Handler) AnalyzeWallet(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Request body must contain a 'wallet_address' field",
		})
		return
	}

	rec, err := h.svc.Analyze(c.Request.Context(), req.Address)
	if err != nil {
		if errors.Is(err, ErrInvalidAddress) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_address",
				"message": "address must be a valid Solana address (base58, 32-44 chars)",
			})
			return
		}
		logging.L(c.Request.Context()).Error("wallet analysis failed",
			"address", req.Address, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "analysis_failed",
			"message": "Failed to analyze wallet",
		})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// GetWallet returns the stored reputation record for a wallet.
// GET /v1/wallets/:address
func (h *Handler) GetWallet(c *gin.Context) {
	address := c.Param("address")

	rec, err := h.svc.Get(c.Request.Context(), address)
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
			"message": "Wallet has not been analyzed yet",
		})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// GetLeaderboard returns the top wallets by reputation score.
// GET /v1/wallets/leaderboard?limit=50
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit := DefaultLeaderboardLimit
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_limit",
				"message": "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	entries, err := h.svc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to build leaderboard",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"count":       len(entries),
	})
}

// GetWalletHistory returns past analysis entries for a wallet, newest first.
// GET /v1/wallets/:address/history?limit=100
func (h *Handler) GetWalletHistory(c *gin.Context) {
	address := c.Param("address")

	limit := 100
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
			if limit > 1000 {
				limit = 1000
			}
		}
	}

	entries, err := h.history.QueryWallet(c.Request.Context(), address, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to query wallet history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": address,
		"history": entries,
		"count":   len(entries),
	})
}
