package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Test helpers ---

func newTestSetup(handler http.Handler) (*Handlers, func()) {
	ts := httptest.NewServer(handler)
	client := NewSorelClient(Config{APIURL: ts.URL})
	h := NewHandlers(client)
	return h, ts.Close
}

func makeRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	if args == nil {
		args = map[string]any{}
	}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected at least one content block")
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text
}

const testAddr = "So11111111111111111111111111111111111111112"

func walletRecordJSON() map[string]any {
	return map[string]any{
		"address":          testAddr,
		"reputation_score": 717.5,
		"label":            "Good",
		"components": map[string]any{
			"volume_score":        300.0,
			"frequency_score":     125.0,
			"age_score":           92.5,
			"contract_score":      100.0,
			"participation_score": 100.0,
		},
		"metrics": map[string]any{
			"transaction_count": 50,
			"wallet_age_days":   185,
		},
		"analyzed_at": "2025-06-01T12:00:00Z",
	}
}

// ============================================================
// Client tests
// ============================================================

func TestClient_DoRequest_HTTPError_WithAPIMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   "wallet_not_found",
			"message": "Wallet has not been analyzed yet",
		})
	}))
	defer ts.Close()

	client := NewSorelClient(Config{APIURL: ts.URL})
	_, err := client.GetWallet(context.Background(), testAddr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "Wallet has not been analyzed yet")
}

func TestClient_DoRequest_HTTPError_NonJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream timeout"))
	}))
	defer ts.Close()

	client := NewSorelClient(Config{APIURL: ts.URL})
	_, err := client.GetPlatformStats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream timeout")
}

func TestClient_DoRequest_ConnectionRefused(t *testing.T) {
	client := NewSorelClient(Config{APIURL: "http://127.0.0.1:1"})
	_, err := client.GetPlatformStats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestClient_AnalyzeWallet_SendsBody(t *testing.T) {
	var gotPath, gotAddress string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotAddress = body["wallet_address"]
		_ = json.NewEncoder(w).Encode(walletRecordJSON())
	}))
	defer ts.Close()

	client := NewSorelClient(Config{APIURL: ts.URL})
	_, err := client.AnalyzeWallet(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Equal(t, "/v1/wallets/analyze", gotPath)
	assert.Equal(t, testAddr, gotAddress)
}

func TestClient_GetLeaderboard_LimitQuery(t *testing.T) {
	var gotLimit string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		_ = json.NewEncoder(w).Encode(map[string]any{"leaderboard": []any{}, "count": 0})
	}))
	defer ts.Close()

	client := NewSorelClient(Config{APIURL: ts.URL})
	_, err := client.GetLeaderboard(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "10", gotLimit)
}

// ============================================================
// Handler tests
// ============================================================

func TestHandleAnalyzeWallet(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		_ = json.NewEncoder(w).Encode(walletRecordJSON())
	}))
	defer cleanup()

	result, err := h.HandleAnalyzeWallet(context.Background(), makeRequest(map[string]any{
		"address": testAddr,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, testAddr)
	assert.Contains(t, text, "717.50")
	assert.Contains(t, text, "Good")
	assert.Contains(t, text, "Volume")
}

func TestHandleAnalyzeWallet_MissingAddress(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("API should not be called without an address")
	}))
	defer cleanup()

	result, err := h.HandleAnalyzeWallet(context.Background(), makeRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleGetWalletReputation_NotFound(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   "wallet_not_found",
			"message": "Wallet has not been analyzed yet",
		})
	}))
	defer cleanup()

	result, err := h.HandleGetWalletReputation(context.Background(), makeRequest(map[string]any{
		"address": testAddr,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Wallet has not been analyzed yet")
}

func TestHandleGetLeaderboard(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"leaderboard": []any{
				map[string]any{"rank": 1, "address": "wallet-a", "reputation_score": 900.0, "label": "Excellent"},
				map[string]any{"rank": 2, "address": "wallet-b", "reputation_score": 900.0, "label": "Excellent"},
				map[string]any{"rank": 3, "address": "wallet-c", "reputation_score": 400.0, "label": "Fair"},
			},
			"count": 3,
		})
	}))
	defer cleanup()

	result, err := h.HandleGetLeaderboard(context.Background(), makeRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "wallet-a")
	assert.Contains(t, text, "900.00")
	assert.Contains(t, text, "Excellent")
}

func TestHandleGetLeaderboard_Empty(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"leaderboard": []any{}, "count": 0})
	}))
	defer cleanup()

	result, err := h.HandleGetLeaderboard(context.Background(), makeRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "No wallets")
}

func TestHandleGetWalletHistory(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"address": testAddr,
			"history": []any{
				map[string]any{"id": 2, "address": testAddr, "score": 720.0, "timestamp": "2025-06-02T10:00:00Z"},
				map[string]any{"id": 1, "address": testAddr, "score": 650.0, "timestamp": "2025-06-01T10:00:00Z"},
			},
			"count": 2,
		})
	}))
	defer cleanup()

	result, err := h.HandleGetWalletHistory(context.Background(), makeRequest(map[string]any{
		"address": testAddr,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "2 entries")
	assert.Contains(t, text, "720.00")
	assert.Contains(t, text, "650.00")
}

func TestHandleGetWalletInsights(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"address": testAddr,
			"score":   717.5,
			"insights": map[string]any{
				"summary":         "Established wallet with steady activity.",
				"risk_level":      "low",
				"observations":    []string{"Old wallet", "Consistent volume"},
				"recommendations": []string{"Suitable counterparty"},
			},
		})
	}))
	defer cleanup()

	result, err := h.HandleGetWalletInsights(context.Background(), makeRequest(map[string]any{
		"address": testAddr,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Established wallet")
	assert.Contains(t, text, "low")
	assert.Contains(t, text, "Old wallet")
	assert.Contains(t, text, "Suitable counterparty")
}

func TestHandleGetWalletInsights_Unavailable(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   "ai_unavailable",
			"message": "AI insights are not available right now",
		})
	}))
	defer cleanup()

	result, err := h.HandleGetWalletInsights(context.Background(), makeRequest(map[string]any{
		"address": testAddr,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "AI insights are not available")
}

func TestHandleGetPlatformStats(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total_wallets_analyzed": 42,
			"average_reputation":     512.34,
			"total_transactions":     1234,
			"active_wallets_24h":     7,
		})
	}))
	defer cleanup()

	result, err := h.HandleGetPlatformStats(context.Background(), makeRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "42")
	assert.Contains(t, text, "512.34")
	assert.Contains(t, text, "1234")
}

func TestHandleGetReputationTrends(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"trends": []any{
				map[string]any{"date": "2025-06-01", "average_score": 550.0, "wallet_count": 2},
				map[string]any{"date": "2025-06-02", "average_score": 700.0, "wallet_count": 1},
			},
			"days": 7,
		})
	}))
	defer cleanup()

	result, err := h.HandleGetReputationTrends(context.Background(), makeRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "2025-06-01")
	assert.Contains(t, text, "550.00")
	assert.Contains(t, text, "2025-06-02")
}

func TestHandleCheckRPCHealth(t *testing.T) {
	h, cleanup := newTestSetup(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "healthy",
			"rpc_url": "https://api.mainnet-beta.solana.com",
			"response_times": map[string]any{
				"get_version": 80.1, "get_slot": 75.3, "get_epoch_info": 90.2, "total": 245.6,
			},
			"blockchain_info": map[string]any{
				"version": "1.18.22", "slot": 290000000, "epoch": 671,
			},
			"timestamp": "2025-06-01T12:00:00Z",
		})
	}))
	defer cleanup()

	result, err := h.HandleCheckRPCHealth(context.Background(), makeRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "healthy")
	assert.Contains(t, text, "1.18.22")
	assert.Contains(t, text, "245.60")
}
