package history

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreAppendAssignsIDs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	e1 := &Entry{Address: "a", Score: 100}
	e2 := &Entry{Address: "b", Score: 200}
	if err := store.Append(ctx, e1); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(ctx, e2); err != nil {
		t.Fatalf("append: %v", err)
	}

	if e1.ID == 0 || e2.ID == 0 || e1.ID == e2.ID {
		t.Errorf("expected distinct non-zero IDs, got %d and %d", e1.ID, e2.ID)
	}
	if e1.CreatedAt.IsZero() {
		t.Error("append should set CreatedAt when zero")
	}
}

func TestMemoryStoreQueryRange(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	_ = store.Append(ctx, &Entry{Address: "old", Score: 100, CreatedAt: now.Add(-10 * 24 * time.Hour)})
	_ = store.Append(ctx, &Entry{Address: "mid", Score: 200, CreatedAt: now.Add(-3 * 24 * time.Hour)})
	_ = store.Append(ctx, &Entry{Address: "new", Score: 300, CreatedAt: now.Add(-1 * time.Hour)})

	entries, err := store.QueryRange(ctx, now.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("query range: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries within 7 days, got %d", len(entries))
	}

	// Ascending by time
	if entries[0].Address != "mid" || entries[1].Address != "new" {
		t.Errorf("unexpected order: %s, %s", entries[0].Address, entries[1].Address)
	}
}

func TestMemoryStoreQueryWallet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	_ = store.Append(ctx, &Entry{Address: "a", Score: 100, CreatedAt: now.Add(-2 * time.Hour)})
	_ = store.Append(ctx, &Entry{Address: "a", Score: 200, CreatedAt: now.Add(-1 * time.Hour)})
	_ = store.Append(ctx, &Entry{Address: "b", Score: 300, CreatedAt: now})

	entries, err := store.QueryWallet(ctx, "a", 10)
	if err != nil {
		t.Fatalf("query wallet: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for wallet a, got %d", len(entries))
	}

	// Newest first
	if entries[0].Score != 200 {
		t.Errorf("expected newest entry first, got score %f", entries[0].Score)
	}

	// Limit applies
	entries, _ = store.QueryWallet(ctx, "a", 1)
	if len(entries) != 1 {
		t.Errorf("expected 1 entry with limit 1, got %d", len(entries))
	}
}
