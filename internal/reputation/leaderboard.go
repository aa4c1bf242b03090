package reputation

import "sort"

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank    int     `json:"rank"`
	Address string  `json:"address"`
	Score   float64 `json:"reputation_score"`
	Label   string  `json:"label"`
}

// DefaultLeaderboardLimit is the number of entries returned when the
// caller doesn't ask for a specific limit.
const DefaultLeaderboardLimit = 50

// MaxLeaderboardLimit bounds the leaderboard size a caller can request.
const MaxLeaderboardLimit = 500

// Rank orders wallet records into a leaderboard. Ordering is by score
// descending with address ascending as the tie-break, so equal inputs
// always produce the same output. Ranks are positional (1..N): tied
// scores still take consecutive ranks, in tie-break order.
func Rank(records []*Record, limit int) []LeaderboardEntry {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	sorted := make([]*Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Address < sorted[j].Address
	})

	if limit > len(sorted) {
		limit = len(sorted)
	}
	entries := make([]LeaderboardEntry, 0, limit)
	for i, rec := range sorted[:limit] {
		entries = append(entries, LeaderboardEntry{
			Rank:    i + 1,
			Address: rec.Address,
			Score:   rec.Score,
			Label:   rec.Label,
		})
	}
	return entries
}
