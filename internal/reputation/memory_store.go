package reputation

import (
	"context"
	"math"
	"sync"
	"time"
)

// MemoryWalletStore implements WalletStore in memory.
type MemoryWalletStore struct {
	mu      sync.RWMutex
	wallets map[string]*Record
}

// NewMemoryWalletStore creates an in-memory wallet store.
func NewMemoryWalletStore() *MemoryWalletStore {
	return &MemoryWalletStore{
		wallets: make(map[string]*Record),
	}
}

func (m *MemoryWalletStore) Upsert(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *rec
	m.wallets[rec.Address] = &cp
	return nil
}

func (m *MemoryWalletStore) Get(_ context.Context, address string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.wallets[address]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryWalletStore) List(_ context.Context) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Record, 0, len(m.wallets))
	for _, rec := range m.wallets {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryWalletStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.wallets), nil
}

func (m *MemoryWalletStore) Stats(_ context.Context, now time.Time) (*PlatformStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &PlatformStats{}
	cutoff := now.Add(-24 * time.Hour)

	var scoreSum float64
	for _, rec := range m.wallets {
		stats.TotalWalletsAnalyzed++
		scoreSum += rec.Score
		stats.TotalTransactions += int64(rec.Metrics.TransactionCount)
		if rec.AnalyzedAt.After(cutoff) {
			stats.ActiveWallets24h++
		}
	}

	if stats.TotalWalletsAnalyzed > 0 {
		avg := scoreSum / float64(stats.TotalWalletsAnalyzed)
		stats.AverageReputation = math.Round(avg*100) / 100
	}

	return stats, nil
}
