// Package monitor tracks Solana RPC endpoint health over time.
//
// Each check issues three lightweight RPC calls (getVersion, getSlot,
// getEpochInfo), times them, and classifies the endpoint as healthy,
// degraded, or unhealthy. Results are persisted so uptime statistics
// can be computed over a window.
package monitor

import (
	"context"
	"math"
	"time"

	"github.com/sorelhq/sorel/internal/collector"
)

// Status classifies an RPC endpoint's condition.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Response time thresholds for classification, averaged per call.
const (
	degradedThreshold  = 2 * time.Second
	unhealthyThreshold = 5 * time.Second
)

// ResponseTimes holds per-call latencies in milliseconds.
type ResponseTimes struct {
	GetVersion   float64 `json:"get_version"`
	GetSlot      float64 `json:"get_slot"`
	GetEpochInfo float64 `json:"get_epoch_info"`
	Total        float64 `json:"total"`
}

// ChainInfo is the blockchain state observed during a check.
type ChainInfo struct {
	Version string `json:"version,omitempty"`
	Slot    uint64 `json:"slot,omitempty"`
	Epoch   uint64 `json:"epoch,omitempty"`
}

// CheckResult is the outcome of one health check.
type CheckResult struct {
	ID            int64         `json:"id,omitempty"`
	Status        Status        `json:"status"`
	RPCURL        string        `json:"rpc_url"`
	ResponseTimes ResponseTimes `json:"response_times"`
	Chain         ChainInfo     `json:"blockchain_info"`
	Error         string        `json:"error,omitempty"`
	CheckedAt     time.Time     `json:"timestamp"`
}

// StatusNotifier receives the outcome of each completed check.
type StatusNotifier interface {
	RPCStatusChanged(status string, totalMs float64)
}

// Monitor runs health checks against a Solana RPC endpoint.
type Monitor struct {
	client   *collector.SolanaClient
	rpcURL   string
	store    CheckStore
	notifier StatusNotifier
}

// New creates a monitor. store may be nil, in which case checks are
// not persisted and uptime stats are unavailable.
func New(client *collector.SolanaClient, rpcURL string, store CheckStore) *Monitor {
	return &Monitor{client: client, rpcURL: rpcURL, store: store}
}

// SetNotifier registers a notifier called after every check.
func (m *Monitor) SetNotifier(n StatusNotifier) {
	m.notifier = n
}

// Check runs one health check: three timed RPC calls. The first error
// short-circuits and marks the endpoint unhealthy.
func (m *Monitor) Check(ctx context.Context) *CheckResult {
	result := &CheckResult{
		RPCURL:    m.rpcURL,
		CheckedAt: time.Now().UTC(),
	}
	start := time.Now()

	version, err := m.client.GetVersion(ctx)
	result.ResponseTimes.GetVersion = msSince(start)
	if err != nil {
		return m.fail(result, start, err)
	}
	result.Chain.Version = version.SolanaCore

	slotStart := time.Now()
	slot, err := m.client.GetSlot(ctx)
	result.ResponseTimes.GetSlot = msSince(slotStart)
	if err != nil {
		return m.fail(result, start, err)
	}
	result.Chain.Slot = slot

	epochStart := time.Now()
	epoch, err := m.client.GetEpochInfo(ctx)
	result.ResponseTimes.GetEpochInfo = msSince(epochStart)
	if err != nil {
		return m.fail(result, start, err)
	}
	result.Chain.Epoch = epoch.Epoch

	total := time.Since(start)
	result.ResponseTimes.Total = roundMs(total)
	result.Status = classify(total / 3)
	return result
}

// CheckAndStore runs a check and persists the result if a store is
// configured.
func (m *Monitor) CheckAndStore(ctx context.Context) (*CheckResult, error) {
	result := m.Check(ctx)
	if m.notifier != nil {
		m.notifier.RPCStatusChanged(string(result.Status), result.ResponseTimes.Total)
	}
	if m.store != nil {
		if err := m.store.Save(ctx, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (m *Monitor) fail(result *CheckResult, start time.Time, err error) *CheckResult {
	result.Status = StatusUnhealthy
	result.Error = err.Error()
	result.ResponseTimes.Total = msSince(start)
	return result
}

// classify maps an average per-call latency to a status.
func classify(avg time.Duration) Status {
	switch {
	case avg > unhealthyThreshold:
		return StatusUnhealthy
	case avg > degradedThreshold:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}

func msSince(t time.Time) float64 {
	return roundMs(time.Since(t))
}

func roundMs(d time.Duration) float64 {
	return math.Round(float64(d.Microseconds())/1000*100) / 100
}
