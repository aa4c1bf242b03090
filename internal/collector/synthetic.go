package collector

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/sorelhq/sorel/internal/reputation"
)

// SyntheticSource fabricates plausible wallet metrics without touching
// the network. The same address always yields the same metrics, so
// demos and tests are reproducible.
type SyntheticSource struct{}

// NewSyntheticSource creates a synthetic metrics source.
func NewSyntheticSource() *SyntheticSource {
	return &SyntheticSource{}
}

// Collect derives metrics from a hash of the address. Values land in
// realistic ranges: up to 100 transactions, a few hundred SOL of
// volume, wallets up to about two years old.
func (s *SyntheticSource) Collect(_ context.Context, address string) (reputation.WalletMetrics, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(address))
	seed := h.Sum64()

	txCount := int(seed%100) + 1
	ageDays := int((seed / 100) % 730)
	volume := float64(seed%50000) / 100 // 0-500 SOL
	frequency := float64(txCount) / math.Max(float64(ageDays), 1)

	return reputation.WalletMetrics{
		TransactionCount:     txCount,
		TotalVolume:          math.Round(volume*100) / 100,
		ContractInteractions: int(float64(txCount) * 0.6),
		WalletAgeDays:        ageDays,
		ActivityFrequency:    math.Round(frequency*100) / 100,
		UniquePrograms:       minInt(int(float64(txCount)*0.3), 20),
	}, nil
}
