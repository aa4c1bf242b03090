// Package validation provides input validation for the SoReL API.
package validation

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/gin-gonic/gin"
)

// MaxRequestSize is the maximum request body size (1MB)
const MaxRequestSize = 1 << 20 // 1MB

// Solana address length bounds (base58-encoded 32-byte public key)
const (
	MinAddressLen = 32
	MaxAddressLen = 44
)

// base58Regex matches the Bitcoin/Solana base58 alphabet (no 0, O, I, l)
var base58Regex = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]+$`)

// RequestSizeMiddleware limits request body size
func RequestSizeMiddleware(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// IsValidSolanaAddress checks that a string is a well-formed Solana address:
// base58 alphabet, 32-44 characters, and decodes to exactly 32 bytes.
func IsValidSolanaAddress(addr string) bool {
	addr = strings.TrimSpace(addr)
	if len(addr) < MinAddressLen || len(addr) > MaxAddressLen {
		return false
	}
	if !base58Regex.MatchString(addr) {
		return false
	}
	decoded := base58.Decode(addr)
	return len(decoded) == 32
}

// SanitizeAddress trims surrounding whitespace from an address.
// Base58 is case-sensitive, so no case normalization is applied.
func SanitizeAddress(addr string) string {
	return strings.TrimSpace(addr)
}

// AddressParamMiddleware validates the :address URL parameter on routes that use it.
// Apply to route groups that include :address params to reject malformed addresses early.
func AddressParamMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		addr := c.Param("address")
		if addr != "" && !IsValidSolanaAddress(addr) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_address",
				"message": "address must be a valid Solana address (base58, 32-44 chars)",
			})
			return
		}
		c.Next()
	}
}
