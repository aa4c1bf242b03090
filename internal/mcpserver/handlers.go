package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers holds the handler functions for each MCP tool.
type Handlers struct {
	client *SorelClient
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *SorelClient) *Handlers {
	return &Handlers{client: client}
}

// HandleAnalyzeWallet runs a fresh analysis of a wallet.
func (h *Handlers) HandleAnalyzeWallet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address := req.GetString("address", "")
	if address == "" {
		return mcp.NewToolResultError("address is required"), nil
	}

	raw, err := h.client.AnalyzeWallet(ctx, address)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to analyze wallet: %v", err)), nil
	}

	text, err := formatWalletRecord(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse analysis: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleGetWalletReputation returns the stored record for a wallet.
func (h *Handlers) HandleGetWalletReputation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address := req.GetString("address", "")
	if address == "" {
		return mcp.NewToolResultError("address is required"), nil
	}

	raw, err := h.client.GetWallet(ctx, address)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get wallet: %v", err)), nil
	}

	text, err := formatWalletRecord(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse wallet: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleGetLeaderboard returns the top wallets by score.
func (h *Handlers) HandleGetLeaderboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 0)

	raw, err := h.client.GetLeaderboard(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get leaderboard: %v", err)), nil
	}

	text, err := formatLeaderboard(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse leaderboard: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleGetWalletHistory returns past analyses for a wallet.
func (h *Handlers) HandleGetWalletHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address := req.GetString("address", "")
	if address == "" {
		return mcp.NewToolResultError("address is required"), nil
	}
	limit := req.GetInt("limit", 0)

	raw, err := h.client.GetWalletHistory(ctx, address, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get history: %v", err)), nil
	}

	text, err := formatHistory(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse history: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleGetWalletInsights returns AI-generated insights for a wallet.
func (h *Handlers) HandleGetWalletInsights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address := req.GetString("address", "")
	if address == "" {
		return mcp.NewToolResultError("address is required"), nil
	}

	raw, err := h.client.GetWalletInsights(ctx, address)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get insights: %v", err)), nil
	}

	text, err := formatInsights(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse insights: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleGetPlatformStats returns aggregate platform statistics.
func (h *Handlers) HandleGetPlatformStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.GetPlatformStats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get stats: %v", err)), nil
	}

	text, err := formatStats(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse stats: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleGetReputationTrends returns daily score trends.
func (h *Handlers) HandleGetReputationTrends(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 0)

	raw, err := h.client.GetTrends(ctx, days)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get trends: %v", err)), nil
	}

	text, err := formatTrends(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse trends: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleCheckRPCHealth runs a live RPC health check.
func (h *Handlers) HandleCheckRPCHealth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.GetRPCHealth(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to check RPC health: %v", err)), nil
	}

	text, err := formatRPCHealth(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse health check: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// --- Formatting helpers ---

func formatWalletRecord(raw json.RawMessage) (string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Wallet Reputation:\n")
	if v := getString(m, "address"); v != "" {
		sb.WriteString(fmt.Sprintf("  Address: %s\n", v))
	}
	if v, ok := getFloat(m, "reputation_score"); ok {
		sb.WriteString(fmt.Sprintf("  Score: %.2f / 1000\n", v))
	}
	if v := getString(m, "label"); v != "" {
		sb.WriteString(fmt.Sprintf("  Label: %s\n", v))
	}

	if comps, ok := m["components"].(map[string]any); ok {
		sb.WriteString("  Components:\n")
		for _, c := range []struct{ key, name string }{
			{"volume_score", "Volume"},
			{"frequency_score", "Frequency"},
			{"age_score", "Age"},
			{"contract_score", "Contracts"},
			{"participation_score", "Participation"},
		} {
			if v, ok := getFloat(comps, c.key); ok {
				sb.WriteString(fmt.Sprintf("    %-13s %.2f\n", c.name+":", v))
			}
		}
	}

	if metrics, ok := m["metrics"].(map[string]any); ok {
		if v, ok := getFloat(metrics, "transaction_count"); ok {
			sb.WriteString(fmt.Sprintf("  Transactions: %.0f\n", v))
		}
		if v, ok := getFloat(metrics, "wallet_age_days"); ok {
			sb.WriteString(fmt.Sprintf("  Wallet Age: %.0f days\n", v))
		}
	}

	if v := getString(m, "analyzed_at"); v != "" {
		sb.WriteString(fmt.Sprintf("  Analyzed: %s\n", v))
	}

	return sb.String(), nil
}

func formatLeaderboard(raw json.RawMessage) (string, error) {
	var resp struct {
		Leaderboard []map[string]any `json:"leaderboard"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	if len(resp.Leaderboard) == 0 {
		return "No wallets have been analyzed yet.", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Top %d wallet(s):\n\n", len(resp.Leaderboard)))
	for _, e := range resp.Leaderboard {
		rank, _ := getFloat(e, "rank")
		score, _ := getFloat(e, "reputation_score")
		sb.WriteString(fmt.Sprintf("%3.0f. %s - %.2f (%s)\n",
			rank, getString(e, "address"), score, getString(e, "label")))
	}
	return sb.String(), nil
}

func formatHistory(raw json.RawMessage) (string, error) {
	var resp struct {
		Address string           `json:"address"`
		History []map[string]any `json:"history"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	if len(resp.History) == 0 {
		return fmt.Sprintf("No analysis history for %s.", resp.Address), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("History for %s (%d entries, newest first):\n\n", resp.Address, len(resp.History)))
	for _, e := range resp.History {
		score, _ := getFloat(e, "score")
		sb.WriteString(fmt.Sprintf("  %s - %.2f\n", getString(e, "timestamp"), score))
	}
	return sb.String(), nil
}

func formatInsights(raw json.RawMessage) (string, error) {
	var resp struct {
		Address  string  `json:"address"`
		Score    float64 `json:"score"`
		Insights struct {
			Summary         string   `json:"summary"`
			RiskLevel       string   `json:"risk_level"`
			Observations    []string `json:"observations"`
			Recommendations []string `json:"recommendations"`
		} `json:"insights"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Insights for %s (score %.2f):\n\n", resp.Address, resp.Score))
	sb.WriteString(resp.Insights.Summary + "\n")
	sb.WriteString(fmt.Sprintf("\nRisk Level: %s\n", resp.Insights.RiskLevel))
	if len(resp.Insights.Observations) > 0 {
		sb.WriteString("\nObservations:\n")
		for _, o := range resp.Insights.Observations {
			sb.WriteString("  - " + o + "\n")
		}
	}
	if len(resp.Insights.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, r := range resp.Insights.Recommendations {
			sb.WriteString("  - " + r + "\n")
		}
	}
	return sb.String(), nil
}

func formatStats(raw json.RawMessage) (string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Platform Statistics:\n")
	if v, ok := getFloat(m, "total_wallets_analyzed"); ok {
		sb.WriteString(fmt.Sprintf("  Wallets Analyzed: %.0f\n", v))
	}
	if v, ok := getFloat(m, "average_reputation"); ok {
		sb.WriteString(fmt.Sprintf("  Average Score: %.2f\n", v))
	}
	if v, ok := getFloat(m, "total_transactions"); ok {
		sb.WriteString(fmt.Sprintf("  Transactions Observed: %.0f\n", v))
	}
	if v, ok := getFloat(m, "active_wallets_24h"); ok {
		sb.WriteString(fmt.Sprintf("  Active (24h): %.0f\n", v))
	}
	return sb.String(), nil
}

func formatTrends(raw json.RawMessage) (string, error) {
	var resp struct {
		Trends []map[string]any `json:"trends"`
		Days   int              `json:"days"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	if len(resp.Trends) == 0 {
		return fmt.Sprintf("No analyses in the last %d day(s).", resp.Days), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Reputation trends (last %d days):\n\n", resp.Days))
	for _, p := range resp.Trends {
		avg, _ := getFloat(p, "average_score")
		count, _ := getFloat(p, "wallet_count")
		sb.WriteString(fmt.Sprintf("  %s - avg %.2f over %.0f analysis(es)\n",
			getString(p, "date"), avg, count))
	}
	return sb.String(), nil
}

func formatRPCHealth(raw json.RawMessage) (string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("RPC Status: %s\n", getString(m, "status")))
	if v := getString(m, "rpc_url"); v != "" {
		sb.WriteString(fmt.Sprintf("  Endpoint: %s\n", v))
	}
	if rt, ok := m["response_times"].(map[string]any); ok {
		if v, ok := getFloat(rt, "total"); ok {
			sb.WriteString(fmt.Sprintf("  Total Response Time: %.2f ms\n", v))
		}
	}
	if chain, ok := m["blockchain_info"].(map[string]any); ok {
		if v := getString(chain, "version"); v != "" {
			sb.WriteString(fmt.Sprintf("  Version: %s\n", v))
		}
		if v, ok := getFloat(chain, "slot"); ok {
			sb.WriteString(fmt.Sprintf("  Slot: %.0f\n", v))
		}
		if v, ok := getFloat(chain, "epoch"); ok {
			sb.WriteString(fmt.Sprintf("  Epoch: %.0f\n", v))
		}
	}
	if v := getString(m, "error"); v != "" {
		sb.WriteString(fmt.Sprintf("  Error: %s\n", v))
	}
	return sb.String(), nil
}

// getString extracts a string value from a map.
func getString(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		if f, ok := v.(float64); ok {
			return fmt.Sprintf("%g", f)
		}
	}
	return ""
}

// getFloat extracts a float64 value from a map.
func getFloat(m map[string]any, key string) (float64, bool) {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok {
			return f, true
		}
	}
	return 0, false
}
