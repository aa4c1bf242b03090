// Package collector gathers on-chain wallet activity and turns it into
// the raw metrics that feed reputation scoring.
//
// Two sources exist: RemoteSource talks to a Solana JSON-RPC node, and
// SyntheticSource fabricates deterministic data for demos and tests.
// Which one runs is a deployment decision made once at startup.
package collector

import (
	"math"
	"time"

	"github.com/sorelhq/sorel/internal/reputation"
)

// SignatureLimit caps how many recent transaction signatures are
// considered per wallet analysis.
const SignatureLimit = 100

// LamportsPerSOL converts native lamport balances to SOL.
const LamportsPerSOL = 1e9

// Both sources satisfy reputation.MetricsSource.

// DeriveMetrics computes wallet metrics from raw chain data.
//
// The derivation is an estimate, not an exact accounting: volume is
// approximated from current balance plus a per-transaction increment,
// and contract/program counts are scaled from transaction count. A
// wallet with no signatures yields zero metrics across the board.
func DeriveMetrics(sigs []SignatureInfo, balanceLamports uint64, now time.Time) reputation.WalletMetrics {
	if len(sigs) == 0 {
		return reputation.WalletMetrics{}
	}

	txCount := len(sigs)
	balance := float64(balanceLamports) / LamportsPerSOL
	totalVolume := balance + float64(txCount)*0.1

	// Age from the oldest signature's block time. Signatures arrive
	// newest-first, so the oldest is last.
	ageDays := 0
	if bt := sigs[len(sigs)-1].BlockTime; bt != nil && *bt > 0 {
		ageDays = int(now.Sub(time.Unix(*bt, 0)).Hours() / 24)
		if ageDays < 0 {
			ageDays = 0
		}
	}

	frequency := float64(txCount) / math.Max(float64(ageDays), 1)

	return reputation.WalletMetrics{
		TransactionCount:     txCount,
		TotalVolume:          math.Round(totalVolume*100) / 100,
		ContractInteractions: int(float64(txCount) * 0.6),
		WalletAgeDays:        ageDays,
		ActivityFrequency:    math.Round(frequency*100) / 100,
		UniquePrograms:       minInt(int(float64(txCount)*0.3), 20),
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
