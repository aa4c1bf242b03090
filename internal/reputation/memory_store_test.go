package reputation

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreUpsertReplaces(t *testing.T) {
	store := NewMemoryWalletStore()
	ctx := context.Background()

	first := rec("addr1", 400)
	first.AnalyzedAt = time.Now().UTC()
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	second := rec("addr1", 600)
	second.AnalyzedAt = time.Now().UTC()
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.Get(ctx, "addr1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Score != 600 {
		t.Errorf("expected replaced score 600, got %f", got.Score)
	}

	n, _ := store.Count(ctx)
	if n != 1 {
		t.Errorf("upsert should not duplicate, count = %d", n)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryWalletStore()

	got, err := store.Get(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown wallet, got %+v", got)
	}
}

func TestMemoryStoreStats(t *testing.T) {
	store := NewMemoryWalletStore()
	ctx := context.Background()
	now := time.Now().UTC()

	recent := rec("recent", 600)
	recent.AnalyzedAt = now.Add(-1 * time.Hour)
	recent.Metrics.TransactionCount = 40

	stale := rec("stale", 400)
	stale.AnalyzedAt = now.Add(-48 * time.Hour)
	stale.Metrics.TransactionCount = 60

	_ = store.Upsert(ctx, recent)
	_ = store.Upsert(ctx, stale)

	stats, err := store.Stats(ctx, now)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.TotalWalletsAnalyzed != 2 {
		t.Errorf("expected 2 wallets, got %d", stats.TotalWalletsAnalyzed)
	}
	if stats.AverageReputation != 500.00 {
		t.Errorf("expected average 500.00, got %f", stats.AverageReputation)
	}
	if stats.TotalTransactions != 100 {
		t.Errorf("expected 100 transactions, got %d", stats.TotalTransactions)
	}
	if stats.ActiveWallets24h != 1 {
		t.Errorf("expected 1 active wallet, got %d", stats.ActiveWallets24h)
	}
}

func TestMemoryStoreStatsEmpty(t *testing.T) {
	store := NewMemoryWalletStore()

	stats, err := store.Stats(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalWalletsAnalyzed != 0 || stats.AverageReputation != 0 {
		t.Errorf("empty store should report zeros, got %+v", stats)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryWalletStore()
	ctx := context.Background()

	_ = store.Upsert(ctx, rec("addr", 500))

	got, _ := store.Get(ctx, "addr")
	got.Score = 999

	again, _ := store.Get(ctx, "addr")
	if again.Score != 500 {
		t.Error("mutating a returned record leaked into the store")
	}
}
