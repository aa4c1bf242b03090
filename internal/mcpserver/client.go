// Package mcpserver exposes the SoReL API as MCP tools so LLM agents
// can analyze wallets and query reputation data over stdio.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Config holds the configuration for connecting to a SoReL instance.
type Config struct {
	APIURL string // Base URL, e.g. "http://localhost:8080"
}

// SorelClient is a pure HTTP client for the SoReL API.
type SorelClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewSorelClient creates a new client for the SoReL API.
func NewSorelClient(cfg Config) *SorelClient {
	return &SorelClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiError represents an error response from the API.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doRequest makes an HTTP request to the API and returns the response body.
func (c *SorelClient) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u, err := url.Parse(c.cfg.APIURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return json.RawMessage(respBody), nil
}

// AnalyzeWallet triggers a fresh analysis of a wallet.
func (c *SorelClient) AnalyzeWallet(ctx context.Context, address string) (json.RawMessage, error) {
	body := map[string]string{"wallet_address": address}
	return c.doRequest(ctx, http.MethodPost, "/v1/wallets/analyze", nil, body)
}

// GetWallet returns the stored reputation record for a wallet.
func (c *SorelClient) GetWallet(ctx context.Context, address string) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/v1/wallets/"+address, nil, nil)
}

// GetLeaderboard returns the top wallets by reputation score.
func (c *SorelClient) GetLeaderboard(ctx context.Context, limit int) (json.RawMessage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return c.doRequest(ctx, http.MethodGet, "/v1/wallets/leaderboard", q, nil)
}

// GetWalletHistory returns past analyses for a wallet, newest first.
func (c *SorelClient) GetWalletHistory(ctx context.Context, address string, limit int) (json.RawMessage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return c.doRequest(ctx, http.MethodGet, "/v1/wallets/"+address+"/history", q, nil)
}

// GetWalletInsights returns AI-generated insights for an analyzed wallet.
func (c *SorelClient) GetWalletInsights(ctx context.Context, address string) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/v1/wallets/"+address+"/insights", nil, nil)
}

// GetPlatformStats returns aggregate platform statistics.
func (c *SorelClient) GetPlatformStats(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/v1/analytics/stats", nil, nil)
}

// GetTrends returns daily reputation trends over a window of days.
func (c *SorelClient) GetTrends(ctx context.Context, days int) (json.RawMessage, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	return c.doRequest(ctx, http.MethodGet, "/v1/analytics/trends", q, nil)
}

// GetRPCHealth runs a live health check against the Solana RPC endpoint.
func (c *SorelClient) GetRPCHealth(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/v1/monitor/rpc", nil, nil)
}
