package collector

import (
	"testing"
	"time"
)

func sig(blockTime int64) SignatureInfo {
	return SignatureInfo{Signature: "sig", BlockTime: &blockTime}
}

func TestDeriveMetricsEmpty(t *testing.T) {
	m := DeriveMetrics(nil, 5*LamportsPerSOL, time.Now())
	if m.TransactionCount != 0 || m.TotalVolume != 0 {
		t.Errorf("no signatures should yield zero metrics, got %+v", m)
	}
}

func TestDeriveMetrics(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	oldest := now.AddDate(0, 0, -100).Unix()
	newest := now.Add(-time.Hour).Unix()

	sigs := make([]SignatureInfo, 0, 50)
	sigs = append(sigs, sig(newest))
	for i := 0; i < 48; i++ {
		sigs = append(sigs, sig(newest-int64(i)*3600))
	}
	sigs = append(sigs, sig(oldest)) // oldest last, newest-first ordering

	m := DeriveMetrics(sigs, 10*LamportsPerSOL, now)

	if m.TransactionCount != 50 {
		t.Errorf("expected 50 transactions, got %d", m.TransactionCount)
	}
	// volume = balance + 0.1 per tx = 10 + 5 = 15
	if m.TotalVolume != 15.00 {
		t.Errorf("expected volume 15.00, got %f", m.TotalVolume)
	}
	if m.WalletAgeDays != 100 {
		t.Errorf("expected age 100 days, got %d", m.WalletAgeDays)
	}
	// frequency = 50 / 100 = 0.5
	if m.ActivityFrequency != 0.5 {
		t.Errorf("expected frequency 0.5, got %f", m.ActivityFrequency)
	}
	// contracts = int(50 * 0.6) = 30
	if m.ContractInteractions != 30 {
		t.Errorf("expected 30 contract interactions, got %d", m.ContractInteractions)
	}
	// programs = min(int(50 * 0.3), 20) = 15
	if m.UniquePrograms != 15 {
		t.Errorf("expected 15 unique programs, got %d", m.UniquePrograms)
	}
}

func TestDeriveMetricsProgramCap(t *testing.T) {
	now := time.Now().UTC()
	bt := now.AddDate(0, 0, -10).Unix()

	sigs := make([]SignatureInfo, 100)
	for i := range sigs {
		sigs[i] = sig(bt)
	}

	m := DeriveMetrics(sigs, 0, now)
	if m.UniquePrograms != 20 {
		t.Errorf("unique programs should cap at 20, got %d", m.UniquePrograms)
	}
}

func TestDeriveMetricsMissingBlockTime(t *testing.T) {
	now := time.Now().UTC()
	sigs := []SignatureInfo{{Signature: "s1"}, {Signature: "s2"}}

	m := DeriveMetrics(sigs, LamportsPerSOL, now)
	if m.WalletAgeDays != 0 {
		t.Errorf("missing block time should yield age 0, got %d", m.WalletAgeDays)
	}
	// frequency divides by max(age, 1), never by zero
	if m.ActivityFrequency != 2 {
		t.Errorf("expected frequency 2, got %f", m.ActivityFrequency)
	}
}
