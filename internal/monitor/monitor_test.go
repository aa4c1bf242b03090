package monitor

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sorelhq/sorel/internal/collector"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		avg  time.Duration
		want Status
	}{
		{100 * time.Millisecond, StatusHealthy},
		{2 * time.Second, StatusHealthy},
		{2001 * time.Millisecond, StatusDegraded},
		{5 * time.Second, StatusDegraded},
		{5001 * time.Millisecond, StatusUnhealthy},
		{10 * time.Second, StatusUnhealthy},
	}

	for _, tc := range tests {
		if got := classify(tc.avg); got != tc.want {
			t.Errorf("classify(%v) = %s, want %s", tc.avg, got, tc.want)
		}
	}
}

func healthyRPCStub() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		var result interface{}
		switch req.Method {
		case "getVersion":
			result = map[string]interface{}{"solana-core": "1.18.22"}
		case "getSlot":
			result = 290000000
		case "getEpochInfo":
			result = map[string]interface{}{"epoch": 671, "absoluteSlot": 290000000}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0", "id": 1, "result": result,
		})
	}))
}

func TestCheckHealthy(t *testing.T) {
	srv := healthyRPCStub()
	defer srv.Close()

	m := New(collector.NewSolanaClient(srv.URL, 5*time.Second), srv.URL, nil)
	result := m.Check(context.Background())

	if result.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s (error: %s)", result.Status, result.Error)
	}
	if result.Chain.Version != "1.18.22" {
		t.Errorf("expected version 1.18.22, got %s", result.Chain.Version)
	}
	if result.Chain.Slot != 290000000 {
		t.Errorf("expected slot 290000000, got %d", result.Chain.Slot)
	}
	if result.Chain.Epoch != 671 {
		t.Errorf("expected epoch 671, got %d", result.Chain.Epoch)
	}
	if result.ResponseTimes.Total <= 0 {
		t.Error("expected positive total response time")
	}
	if result.CheckedAt.IsZero() {
		t.Error("expected CheckedAt to be set")
	}
}

func TestCheckUnreachable(t *testing.T) {
	// Closed server: connection refused
	srv := healthyRPCStub()
	srv.Close()

	m := New(collector.NewSolanaClient(srv.URL, time.Second), srv.URL, nil)
	result := m.Check(context.Background())

	if result.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", result.Status)
	}
	if result.Error == "" {
		t.Error("expected error detail on failed check")
	}
}

func TestCheckAndStore(t *testing.T) {
	srv := healthyRPCStub()
	defer srv.Close()

	store := NewMemoryCheckStore()
	m := New(collector.NewSolanaClient(srv.URL, 5*time.Second), srv.URL, store)

	result, err := m.CheckAndStore(context.Background())
	if err != nil {
		t.Fatalf("check and store: %v", err)
	}
	if result.ID == 0 {
		t.Error("expected stored result to have an ID")
	}

	recent, err := store.Recent(context.Background(), time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("expected 1 stored check, got %d", len(recent))
	}
}

func TestComputeUptime(t *testing.T) {
	checks := []*CheckResult{
		{Status: StatusHealthy, ResponseTimes: ResponseTimes{Total: 100}},
		{Status: StatusHealthy, ResponseTimes: ResponseTimes{Total: 200}},
		{Status: StatusDegraded, ResponseTimes: ResponseTimes{Total: 2500}},
		{Status: StatusUnhealthy, ResponseTimes: ResponseTimes{Total: 1200}},
	}

	stats := ComputeUptime(checks, 24)
	if stats.TotalChecks != 4 {
		t.Errorf("expected 4 checks, got %d", stats.TotalChecks)
	}
	if stats.UptimePercentage != 50.00 {
		t.Errorf("expected uptime 50.00, got %f", stats.UptimePercentage)
	}
	if stats.AvailabilityPct != 75.00 {
		t.Errorf("expected availability 75.00, got %f", stats.AvailabilityPct)
	}
	if stats.AverageResponseTimeMs != 1000.00 {
		t.Errorf("expected avg 1000.00, got %f", stats.AverageResponseTimeMs)
	}
}

func TestComputeUptimeEmpty(t *testing.T) {
	stats := ComputeUptime(nil, 24)
	if stats.TotalChecks != 0 || stats.UptimePercentage != 0 {
		t.Errorf("empty input should produce zero stats, got %+v", stats)
	}
	if stats.PeriodHours != 24 {
		t.Errorf("period should still be set, got %d", stats.PeriodHours)
	}
}
