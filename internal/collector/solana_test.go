package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rpcStub answers JSON-RPC methods with canned results.
func rpcStub(t *testing.T, results map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, ok := results[req.Method]
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"jsonrpc": "2.0", "id": 1,
				"error": map[string]interface{}{"code": -32601, "message": "method not found"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0", "id": 1, "result": result,
		})
	}))
}

func TestGetSignaturesForAddress(t *testing.T) {
	srv := rpcStub(t, map[string]interface{}{
		"getSignaturesForAddress": []map[string]interface{}{
			{"signature": "sig1", "slot": 100, "blockTime": 1700000100},
			{"signature": "sig2", "slot": 99, "blockTime": 1700000000},
		},
	})
	defer srv.Close()

	client := NewSolanaClient(srv.URL, 5*time.Second)
	sigs, err := client.GetSignaturesForAddress(context.Background(), "addr", 100)
	require.NoError(t, err)
	require.Len(t, sigs, 2)
	assert.Equal(t, "sig1", sigs[0].Signature)
	require.NotNil(t, sigs[1].BlockTime)
	assert.Equal(t, int64(1700000000), *sigs[1].BlockTime)
}

func TestGetBalance(t *testing.T) {
	srv := rpcStub(t, map[string]interface{}{
		"getBalance": map[string]interface{}{
			"context": map[string]interface{}{"slot": 123},
			"value":   2500000000,
		},
	})
	defer srv.Close()

	client := NewSolanaClient(srv.URL, 5*time.Second)
	balance, err := client.GetBalance(context.Background(), "addr")
	require.NoError(t, err)
	assert.Equal(t, uint64(2500000000), balance)
}

func TestMonitoringMethods(t *testing.T) {
	srv := rpcStub(t, map[string]interface{}{
		"getVersion": map[string]interface{}{"solana-core": "1.18.22"},
		"getSlot":    290000000,
		"getEpochInfo": map[string]interface{}{
			"epoch": 671, "slotIndex": 1000, "slotsInEpoch": 432000, "absoluteSlot": 290000000,
		},
	})
	defer srv.Close()

	client := NewSolanaClient(srv.URL, 5*time.Second)
	ctx := context.Background()

	v, err := client.GetVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.18.22", v.SolanaCore)

	slot, err := client.GetSlot(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(290000000), slot)

	epoch, err := client.GetEpochInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(671), epoch.Epoch)
}

func TestCallRPCError(t *testing.T) {
	srv := rpcStub(t, nil)
	defer srv.Close()

	client := NewSolanaClient(srv.URL, 5*time.Second)
	_, err := client.GetSlot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")
}

func TestCallHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewSolanaClient(srv.URL, 5*time.Second)
	_, err := client.GetSlot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestRemoteSourceCollect(t *testing.T) {
	now := time.Now().UTC()
	oldest := now.AddDate(0, 0, -50).Unix()

	srv := rpcStub(t, map[string]interface{}{
		"getSignaturesForAddress": []map[string]interface{}{
			{"signature": "new", "blockTime": now.Add(-time.Hour).Unix()},
			{"signature": "old", "blockTime": oldest},
		},
		"getBalance": map[string]interface{}{"value": 5000000000},
	})
	defer srv.Close()

	source := NewRemoteSource(NewSolanaClient(srv.URL, 5*time.Second))
	m, err := source.Collect(context.Background(), "addr")
	require.NoError(t, err)
	assert.Equal(t, 2, m.TransactionCount)
	// 5 SOL + 2 * 0.1
	assert.Equal(t, 5.2, m.TotalVolume)
	assert.Equal(t, 50, m.WalletAgeDays)
}

func TestRemoteSourceEmptyWallet(t *testing.T) {
	srv := rpcStub(t, map[string]interface{}{
		"getSignaturesForAddress": []interface{}{},
	})
	defer srv.Close()

	source := NewRemoteSource(NewSolanaClient(srv.URL, 5*time.Second))
	m, err := source.Collect(context.Background(), "addr")
	require.NoError(t, err)
	assert.Zero(t, m.TransactionCount)
	assert.Zero(t, m.TotalVolume)
}
