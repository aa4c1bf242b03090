package monitor

import (
	"context"
	"sort"
	"sync"
	"time"
)

// CheckStore persists health check results.
type CheckStore interface {
	// Save records a check result.
	Save(ctx context.Context, result *CheckResult) error

	// Recent returns results recorded at or after since, newest first.
	Recent(ctx context.Context, since time.Time) ([]*CheckResult, error)
}

// MemoryCheckStore implements CheckStore in memory with a bounded
// ring: old results are dropped once the cap is reached.
type MemoryCheckStore struct {
	mu      sync.RWMutex
	results []*CheckResult
	nextID  int64
	max     int
}

// NewMemoryCheckStore creates an in-memory check store.
func NewMemoryCheckStore() *MemoryCheckStore {
	return &MemoryCheckStore{nextID: 1, max: 10000}
}

func (m *MemoryCheckStore) Save(_ context.Context, result *CheckResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	result.ID = m.nextID
	m.nextID++
	cp := *result
	m.results = append(m.results, &cp)
	if len(m.results) > m.max {
		m.results = m.results[len(m.results)-m.max:]
	}
	return nil
}

func (m *MemoryCheckStore) Recent(_ context.Context, since time.Time) ([]*CheckResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*CheckResult
	for _, r := range m.results {
		if r.CheckedAt.Before(since) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CheckedAt.After(out[j].CheckedAt)
	})
	return out, nil
}
