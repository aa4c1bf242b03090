// Package reputation implements wallet reputation scoring for SoReL.
//
// Reputation is calculated from on-chain Solana behavior:
// - Transaction volume (SOL moved)
// - Activity frequency (transactions per day)
// - Wallet age (days since first transaction)
// - Contract interactions (program invocations)
// - Network participation (unique programs touched)
//
// Each component is a capped linear term; the final score is their
// sum clamped to 0-1000 and rounded to two decimals.
package reputation

import (
	"math"
	"time"
)

// MaxScore is the ceiling for a reputation score.
const MaxScore = 1000.0

// Component caps. The sum of caps equals MaxScore, so the clamp
// only matters if the caps ever change independently.
const (
	volumeCap        = 300.0
	frequencyCap     = 250.0
	ageCap           = 150.0
	contractCap      = 200.0
	participationCap = 100.0
)

// WalletMetrics are the raw on-chain inputs to the score.
type WalletMetrics struct {
	TransactionCount     int     `json:"transaction_count"`
	TotalVolume          float64 `json:"total_volume"` // SOL
	ContractInteractions int     `json:"contract_interactions"`
	WalletAgeDays        int     `json:"wallet_age_days"`
	ActivityFrequency    float64 `json:"activity_frequency"` // txns per day
	UniquePrograms       int     `json:"unique_programs"`
}

// Components breaks down the score by contributing factor.
type Components struct {
	VolumeScore        float64 `json:"volume_score"`        // 0-300
	FrequencyScore     float64 `json:"frequency_score"`     // 0-250
	AgeScore           float64 `json:"age_score"`           // 0-150
	ContractScore      float64 `json:"contract_score"`      // 0-200
	ParticipationScore float64 `json:"participation_score"` // 0-100
}

// Record is a wallet's stored reputation state.
type Record struct {
	Address    string        `json:"address"`
	Score      float64       `json:"reputation_score"`
	Label      string        `json:"label"`
	Components Components    `json:"components"`
	Metrics    WalletMetrics `json:"metrics"`
	AnalyzedAt time.Time     `json:"analyzed_at"`
}

// Calculator computes reputation scores.
type Calculator struct{}

// NewCalculator creates a reputation calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate computes a wallet's reputation from its metrics.
// The result is deterministic: equal metrics always produce equal scores.
func (c *Calculator) Calculate(address string, m WalletMetrics) *Record {
	comp := ComponentsFor(m)

	total := comp.VolumeScore +
		comp.FrequencyScore +
		comp.AgeScore +
		comp.ContractScore +
		comp.ParticipationScore

	score := math.Round(math.Min(total, MaxScore)*100) / 100

	return &Record{
		Address:    address,
		Score:      score,
		Label:      Label(score),
		Components: comp,
		Metrics:    m,
		AnalyzedAt: time.Now().UTC(),
	}
}

// ComponentsFor derives the capped component scores from raw metrics.
// Negative inputs clamp to zero rather than subtracting from the score.
func ComponentsFor(m WalletMetrics) Components {
	return Components{
		VolumeScore:        clamp(m.TotalVolume/100, volumeCap),
		FrequencyScore:     clamp(m.ActivityFrequency*50, frequencyCap),
		AgeScore:           clamp(float64(m.WalletAgeDays)/2, ageCap),
		ContractScore:      clamp(float64(m.ContractInteractions)*2, contractCap),
		ParticipationScore: clamp(float64(m.UniquePrograms)*10, participationCap),
	}
}

func clamp(v, ceil float64) float64 {
	return math.Max(0, math.Min(v, ceil))
}

// Label maps a score to its human-readable reputation band.
func Label(score float64) string {
	switch {
	case score >= 750:
		return "Excellent"
	case score >= 500:
		return "Good"
	case score >= 250:
		return "Fair"
	default:
		return "Low"
	}
}
