// internal/stats/ledger.go
//
// Per-user win/loss counters. A counter is incremented exactly once per
// terminal game transition; concurrent increments for the same user
// serialize without lost updates, and increments for different users never
// interfere.

package stats

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrUnknownUser reports a stats read or increment for an id with no row.
var ErrUnknownUser = errors.New("stats: unknown user")

// UserStats is one user's accumulated game outcomes.
type UserStats struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}

// Ledger applies game outcomes to per-user counters and exposes consistent
// reads. Implementations may be backed by memory (this package) or SQL.
type Ledger interface {
	// RecordWin atomically increments the user's win counter.
	RecordWin(ctx context.Context, userID string) error

	// RecordLoss atomically increments the user's loss counter.
	RecordLoss(ctx context.Context, userID string) error

	// Stats returns the user's counters, or ErrUnknownUser.
	Stats(ctx context.Context, userID string) (UserStats, error)

	// Snapshot returns a point-in-time copy of every user's counters.
	Snapshot(ctx context.Context) ([]UserStats, error)
}

// MemoryLedger is a mutex-guarded in-memory Ledger. Used in tests and when
// durability is not required; unknown users are created on first increment.
type MemoryLedger struct {
	mu    sync.Mutex
	users map[string]*UserStats
}

// NewMemoryLedger constructs an empty MemoryLedger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{users: make(map[string]*UserStats)}
}

// Register sets the display name reported for userID in snapshots.
func (m *MemoryLedger) Register(userID, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensure(userID).Username = username
}

func (m *MemoryLedger) RecordWin(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensure(userID).Wins++
	return nil
}

func (m *MemoryLedger) RecordLoss(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensure(userID).Losses++
	return nil
}

func (m *MemoryLedger) Stats(ctx context.Context, userID string) (UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return UserStats{}, ErrUnknownUser
	}
	return *u, nil
}

func (m *MemoryLedger) Snapshot(ctx context.Context) ([]UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]UserStats, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	// map order is random; keep snapshots stable for callers
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// ensure must be called with the lock held.
func (m *MemoryLedger) ensure(userID string) *UserStats {
	u, ok := m.users[userID]
	if !ok {
		u = &UserStats{UserID: userID, Username: userID}
		m.users[userID] = u
	}
	return u
}
