// internal/stats/ranker.go
//
// Leaderboard views computed from a single Ledger snapshot per call. No rank
// is cached or materialized: a Ranker holds no state of its own, so there is
// nothing to invalidate when counters move. Each call reads one snapshot and
// never mixes two.

package stats

import (
	"context"
	"sort"

	"github.com/samber/lo"
)

// LeaderboardEntry is one leaderboard row. Derived, never stored.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Wins     int    `json:"wins"`
}

// DefaultTopN is the leaderboard size when the caller does not pick one.
const DefaultTopN = 20

// Ranker is a pure read-side view over a Ledger.
type Ranker struct {
	ledger Ledger
}

// NewRanker builds a Ranker over l.
func NewRanker(l Ledger) *Ranker {
	return &Ranker{ledger: l}
}

// TopN returns the first n users ordered by wins descending, with a stable
// username-ascending tie-break. n <= 0 means DefaultTopN.
func (r *Ranker) TopN(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	if n <= 0 {
		n = DefaultTopN
	}
	snap, err := r.ledger.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	entries := lo.Map(snap, func(u UserStats, _ int) LeaderboardEntry {
		return LeaderboardEntry{Username: u.Username, Wins: u.Wins}
	})
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].Username < entries[j].Username
	})
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries, nil
}

// RankOf returns the user's 1-based leaderboard position:
// 1 + the number of users with strictly more wins. Users sharing a win count
// share a rank, and the next distinct count skips past them.
func (r *Ranker) RankOf(ctx context.Context, userID string) (int, error) {
	snap, err := r.ledger.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	me, ok := lo.Find(snap, func(u UserStats) bool { return u.UserID == userID })
	if !ok {
		return 0, ErrUnknownUser
	}
	greater := lo.CountBy(snap, func(u UserStats) bool { return u.Wins > me.Wins })
	return greater + 1, nil
}
