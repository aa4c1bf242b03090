package collector

import (
	"context"
	"testing"
)

func TestSyntheticDeterministic(t *testing.T) {
	source := NewSyntheticSource()
	ctx := context.Background()

	addr := "So11111111111111111111111111111111111111112"
	first, err := source.Collect(ctx, addr)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	second, _ := source.Collect(ctx, addr)

	if first != second {
		t.Errorf("same address produced different metrics: %+v vs %+v", first, second)
	}
}

func TestSyntheticVariesByAddress(t *testing.T) {
	source := NewSyntheticSource()
	ctx := context.Background()

	a, _ := source.Collect(ctx, "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	b, _ := source.Collect(ctx, "So11111111111111111111111111111111111111112")

	if a == b {
		t.Error("different addresses should produce different metrics")
	}
}

func TestSyntheticRanges(t *testing.T) {
	source := NewSyntheticSource()
	ctx := context.Background()

	addrs := []string{
		"11111111111111111111111111111111",
		"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		"So11111111111111111111111111111111111111112",
	}
	for _, addr := range addrs {
		m, err := source.Collect(ctx, addr)
		if err != nil {
			t.Fatalf("collect %s: %v", addr, err)
		}
		if m.TransactionCount < 1 || m.TransactionCount > 100 {
			t.Errorf("%s: transaction count out of range: %d", addr, m.TransactionCount)
		}
		if m.TotalVolume < 0 || m.TotalVolume > 500 {
			t.Errorf("%s: volume out of range: %f", addr, m.TotalVolume)
		}
		if m.WalletAgeDays < 0 || m.WalletAgeDays >= 730 {
			t.Errorf("%s: age out of range: %d", addr, m.WalletAgeDays)
		}
		if m.ActivityFrequency < 0 {
			t.Errorf("%s: negative frequency", addr)
		}
	}
}
