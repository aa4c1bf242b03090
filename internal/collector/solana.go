package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sorelhq/sorel/internal/metrics"
	"github.com/sorelhq/sorel/internal/reputation"
)

// SolanaClient is a minimal Solana JSON-RPC client covering the
// handful of methods SoReL needs. One request per call, no batching,
// no retries: a failed analysis is reported to the caller, not papered
// over.
type SolanaClient struct {
	rpcURL string
	client *http.Client
}

// NewSolanaClient creates a client against the given RPC endpoint.
func NewSolanaClient(rpcURL string, timeout time.Duration) *SolanaClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SolanaClient{
		rpcURL: rpcURL,
		client: &http.Client{Timeout: timeout},
	}
}

// SignatureInfo is one entry from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string      `json:"signature"`
	Slot      uint64      `json:"slot"`
	BlockTime *int64      `json:"blockTime"`
	Err       interface{} `json:"err"`
}

// VersionInfo is the getVersion result.
type VersionInfo struct {
	SolanaCore string `json:"solana-core"`
}

// EpochInfo is the getEpochInfo result.
type EpochInfo struct {
	Epoch        uint64 `json:"epoch"`
	SlotIndex    uint64 `json:"slotIndex"`
	SlotsInEpoch uint64 `json:"slotsInEpoch"`
	AbsoluteSlot uint64 `json:"absoluteSlot"`
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// call performs one JSON-RPC request and unmarshals the result.
func (c *SolanaClient) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RPCCallsTotal.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("rpc call %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RPCCallsTotal.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("rpc call %s returned status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		metrics.RPCCallsTotal.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		metrics.RPCCallsTotal.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("rpc call %s: %s (code %d)", method, rpcResp.Error.Message, rpcResp.Error.Code)
	}

	metrics.RPCCallsTotal.WithLabelValues(method, "ok").Inc()

	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
		}
	}
	return nil
}

// GetSignaturesForAddress returns up to limit recent transaction
// signatures for an address, newest first.
func (c *SolanaClient) GetSignaturesForAddress(ctx context.Context, address string, limit int) ([]SignatureInfo, error) {
	if limit <= 0 || limit > SignatureLimit {
		limit = SignatureLimit
	}
	var sigs []SignatureInfo
	err := c.call(ctx, "getSignaturesForAddress",
		[]interface{}{address, map[string]interface{}{"limit": limit}}, &sigs)
	if err != nil {
		return nil, err
	}
	return sigs, nil
}

// GetBalance returns the lamport balance of an address.
func (c *SolanaClient) GetBalance(ctx context.Context, address string) (uint64, error) {
	var result struct {
		Value uint64 `json:"value"`
	}
	if err := c.call(ctx, "getBalance", []interface{}{address}, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

// GetVersion returns the node's software version.
func (c *SolanaClient) GetVersion(ctx context.Context) (*VersionInfo, error) {
	var v VersionInfo
	if err := c.call(ctx, "getVersion", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetSlot returns the current slot.
func (c *SolanaClient) GetSlot(ctx context.Context) (uint64, error) {
	var slot uint64
	if err := c.call(ctx, "getSlot", nil, &slot); err != nil {
		return 0, err
	}
	return slot, nil
}

// GetEpochInfo returns the current epoch state.
func (c *SolanaClient) GetEpochInfo(ctx context.Context) (*EpochInfo, error) {
	var info EpochInfo
	if err := c.call(ctx, "getEpochInfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// RemoteSource collects metrics from a live Solana RPC node.
type RemoteSource struct {
	client *SolanaClient
}

// NewRemoteSource creates a Source backed by a Solana RPC client.
func NewRemoteSource(client *SolanaClient) *RemoteSource {
	return &RemoteSource{client: client}
}

// Collect fetches recent signatures and the current balance, then
// derives wallet metrics. A wallet with no on-chain history returns
// zero metrics and no error.
func (s *RemoteSource) Collect(ctx context.Context, address string) (reputation.WalletMetrics, error) {
	sigs, err := s.client.GetSignaturesForAddress(ctx, address, SignatureLimit)
	if err != nil {
		return reputation.WalletMetrics{}, err
	}
	if len(sigs) == 0 {
		return reputation.WalletMetrics{}, nil
	}

	balance, err := s.client.GetBalance(ctx, address)
	if err != nil {
		return reputation.WalletMetrics{}, err
	}

	return DeriveMetrics(sigs, balance, time.Now().UTC()), nil
}
