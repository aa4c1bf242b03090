package reputation

import (
	"context"
	"time"
)

// PlatformStats are aggregate statistics across all analyzed wallets.
type PlatformStats struct {
	TotalWalletsAnalyzed int     `json:"total_wallets_analyzed"`
	AverageReputation    float64 `json:"average_reputation"`
	TotalTransactions    int64   `json:"total_transactions"`
	ActiveWallets24h     int     `json:"active_wallets_24h"`
}

// WalletStore persists wallet reputation records.
type WalletStore interface {
	// Upsert inserts or replaces the record for its address.
	Upsert(ctx context.Context, rec *Record) error

	// Get returns the record for an address, or (nil, nil) if not analyzed yet.
	Get(ctx context.Context, address string) (*Record, error)

	// List returns all wallet records in unspecified order.
	List(ctx context.Context) ([]*Record, error)

	// Count returns the number of analyzed wallets.
	Count(ctx context.Context) (int, error)

	// Stats computes platform-wide aggregates. "Active" means
	// analyzed within the 24 hours before now.
	Stats(ctx context.Context, now time.Time) (*PlatformStats, error)
}
