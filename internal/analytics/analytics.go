// Package analytics serves platform-wide statistics and reputation
// trends derived from the wallet store and the history log.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/sorelhq/sorel/internal/history"
	"github.com/sorelhq/sorel/internal/reputation"
)

// DefaultTrendDays is the trend window when the caller doesn't specify one.
const DefaultTrendDays = 7

// MaxTrendDays bounds the trend window a caller can request.
const MaxTrendDays = 365

// trendAggregator is implemented by stores that can aggregate trends
// themselves (the PostgreSQL store does it in SQL).
type trendAggregator interface {
	TrendsSince(ctx context.Context, from time.Time) ([]history.TrendPoint, error)
}

// Service computes analytics over stored reputation data.
type Service struct {
	wallets reputation.WalletStore
	history history.Store
}

// NewService creates an analytics service.
func NewService(wallets reputation.WalletStore, hist history.Store) *Service {
	return &Service{wallets: wallets, history: hist}
}

// Stats returns platform-wide aggregates.
func (s *Service) Stats(ctx context.Context) (*reputation.PlatformStats, error) {
	stats, err := s.wallets.Stats(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}

// Trends returns day-bucketed average scores over the last N days.
// Non-positive days fall back to the default window; days beyond
// MaxTrendDays are clamped to it.
func (s *Service) Trends(ctx context.Context, days int) ([]history.TrendPoint, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	if days > MaxTrendDays {
		days = MaxTrendDays
	}
	from := time.Now().UTC().AddDate(0, 0, -days)

	// Let the store aggregate if it can; otherwise aggregate here.
	if agg, ok := s.history.(trendAggregator); ok {
		points, err := agg.TrendsSince(ctx, from)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate trends: %w", err)
		}
		return points, nil
	}

	entries, err := s.history.QueryRange(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return history.AggregateTrends(entries), nil
}
