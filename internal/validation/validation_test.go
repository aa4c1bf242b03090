package validation

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIsValidSolanaAddress(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want bool
	}{
		{"system program", "11111111111111111111111111111111", true},
		{"token program", "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", true},
		{"wrapped SOL", "So11111111111111111111111111111111111111112", true},
		{"with surrounding whitespace", "  11111111111111111111111111111111  ", true},
		{"empty", "", false},
		{"too short", "abc123", false},
		{"invalid base58 char zero", "0xERd38eJe1M1xirLZQgkmfWqnrM7xG64i8", false},
		{"ethereum address", "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb8", false},
		{"right length wrong payload", "1111111111111111111111111111111111111111", false}, // decodes to 40 bytes
		{"too long", "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DAAAAA", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidSolanaAddress(tc.addr); got != tc.want {
				t.Errorf("IsValidSolanaAddress(%q) = %v, want %v", tc.addr, got, tc.want)
			}
		})
	}
}

func TestSanitizeAddress(t *testing.T) {
	if got := SanitizeAddress("  So11111111111111111111111111111111111111112\n"); got != "So11111111111111111111111111111111111111112" {
		t.Errorf("SanitizeAddress did not trim whitespace: %q", got)
	}

	// Case must be preserved, base58 is case-sensitive
	if got := SanitizeAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"); got != "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA" {
		t.Errorf("SanitizeAddress changed case: %q", got)
	}
}

func TestAddressParamMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AddressParamMiddleware())
	r.GET("/wallets/:address", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/wallets/So11111111111111111111111111111111111111112", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid address: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/wallets/not-an-address", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid address: expected 400, got %d", w.Code)
	}
}
