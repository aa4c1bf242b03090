// Package history keeps the append-only log of reputation scores and
// derives day-bucketed trend aggregates from it.
package history

import (
	"context"
	"math"
	"sort"
	"time"
)

// Entry is one recorded analysis result for a wallet.
type Entry struct {
	ID        int64     `json:"id,omitempty"`
	Address   string    `json:"address"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"timestamp"`
}

// TrendPoint is the aggregate of all entries recorded on one UTC day.
type TrendPoint struct {
	Date         string  `json:"date"` // YYYY-MM-DD, UTC
	AverageScore float64 `json:"average_score"`
	WalletCount  int     `json:"wallet_count"`
}

// Store persists history entries. Entries are append-only: nothing
// updates or deletes them.
type Store interface {
	// Append records an entry. The store assigns ID and CreatedAt
	// (if zero).
	Append(ctx context.Context, e *Entry) error

	// QueryRange returns entries recorded at or after from, ordered
	// by CreatedAt ascending.
	QueryRange(ctx context.Context, from time.Time) ([]*Entry, error)

	// QueryWallet returns up to limit entries for a wallet, newest first.
	QueryWallet(ctx context.Context, address string, limit int) ([]*Entry, error)
}

// AggregateTrends buckets entries by UTC calendar day and averages the
// scores per bucket. WalletCount counts entries, not distinct wallets:
// a wallet analyzed twice in one day contributes twice, matching how
// the log itself is append-only. Output is sorted by date ascending.
func AggregateTrends(entries []*Entry) []TrendPoint {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)

	for _, e := range entries {
		day := e.CreatedAt.UTC().Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.sum += e.Score
		b.count++
	}

	points := make([]TrendPoint, 0, len(buckets))
	for day, b := range buckets {
		points = append(points, TrendPoint{
			Date:         day,
			AverageScore: math.Round(b.sum/float64(b.count)*100) / 100,
			WalletCount:  b.count,
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}
