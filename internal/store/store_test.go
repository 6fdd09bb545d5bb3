package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abswordle/server/internal/game"
)

// fixedSource always deals the same secret and accepts any guess.
type fixedSource struct {
	secret string
}

func (f fixedSource) PickSecret() (string, error) { return f.secret, nil }
func (f fixedSource) IsValidGuess(string) bool    { return true }

// countingRecorder tallies outcome notifications per user.
type countingRecorder struct {
	mu     sync.Mutex
	wins   map[string]int
	losses map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{wins: map[string]int{}, losses: map[string]int{}}
}

func (c *countingRecorder) RecordWin(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wins[userID]++
	return nil
}

func (c *countingRecorder) RecordLoss(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.losses[userID]++
	return nil
}

func TestCreateAndGet(t *testing.T) {
	st := New(fixedSource{secret: "crane"}, nil, DefaultConfig())

	sess, err := st.Create(context.Background(), "u1", true)
	require.NoError(t, err)

	got, err := st.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = st.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitUnknownSession(t *testing.T) {
	st := New(fixedSource{secret: "crane"}, nil, DefaultConfig())
	_, err := st.Submit(context.Background(), "missing", "crane")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitRecordsWinOnce(t *testing.T) {
	rec := newCountingRecorder()
	st := New(fixedSource{secret: "crane"}, rec, DefaultConfig())
	ctx := context.Background()

	sess, err := st.Create(ctx, "u1", true)
	require.NoError(t, err)

	res, err := st.Submit(ctx, sess.ID, "crane")
	require.NoError(t, err)
	assert.Equal(t, game.StatusWin, res.Status)
	assert.Equal(t, 1, rec.wins["u1"])

	_, err = st.Submit(ctx, sess.ID, "crane")
	assert.ErrorIs(t, err, game.ErrSessionFinished)
	assert.Equal(t, 1, rec.wins["u1"], "terminal session never double-counts")
}

func TestSubmitRecordsLossOnce(t *testing.T) {
	rec := newCountingRecorder()
	st := New(fixedSource{secret: "crane"}, rec, DefaultConfig())
	ctx := context.Background()

	sess, err := st.Create(ctx, "u1", true)
	require.NoError(t, err)

	var last game.Result
	for i := 0; i < game.MaxAttempts; i++ {
		var err error
		last, err = st.Submit(ctx, sess.ID, "slate")
		require.NoError(t, err)
	}
	assert.Equal(t, game.StatusLose, last.Status)
	assert.Equal(t, "crane", last.Word)
	assert.Equal(t, 1, rec.losses["u1"])
	assert.Equal(t, 0, rec.wins["u1"])
}

func TestAnonymousOutcomeSkipsRecorder(t *testing.T) {
	rec := newCountingRecorder()
	st := New(fixedSource{secret: "crane"}, rec, DefaultConfig())
	ctx := context.Background()

	sess, err := st.Create(ctx, "anon-cookie-id", false)
	require.NoError(t, err)

	res, err := st.Submit(ctx, sess.ID, "crane")
	require.NoError(t, err)
	assert.Equal(t, game.StatusWin, res.Status)
	assert.Empty(t, rec.wins)
}

// Many simultaneous finished games for one user must all land in the ledger.
func TestConcurrentGamesNoLostUpdates(t *testing.T) {
	rec := newCountingRecorder()
	st := New(fixedSource{secret: "crane"}, rec, DefaultConfig())
	ctx := context.Background()

	const games = 50
	ids := make([]string, games)
	for i := range ids {
		sess, err := st.Create(ctx, "u1", true)
		require.NoError(t, err)
		ids[i] = sess.ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = st.Submit(ctx, id, "crane")
		}(id)
	}
	wg.Wait()

	assert.Equal(t, games, rec.wins["u1"])
}

func TestEvictFinishedAfterGrace(t *testing.T) {
	st := New(fixedSource{secret: "crane"}, nil, Config{
		IdleTimeout:   time.Hour,
		FinishedGrace: 50 * time.Millisecond,
	})
	ctx := context.Background()

	sess, err := st.Create(ctx, "u1", true)
	require.NoError(t, err)
	_, err = st.Submit(ctx, sess.ID, "crane")
	require.NoError(t, err)

	// Still readable within the grace period.
	assert.Equal(t, 0, st.EvictExpired(time.Now()))
	_, err = st.Get(sess.ID)
	require.NoError(t, err)

	// Gone once the grace period has passed, and it stays gone.
	assert.Equal(t, 1, st.EvictExpired(time.Now().Add(time.Second)))
	_, err = st.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = st.Submit(ctx, sess.ID, "crane")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEvictIdleSessions(t *testing.T) {
	st := New(fixedSource{secret: "crane"}, nil, Config{
		IdleTimeout:   100 * time.Millisecond,
		FinishedGrace: time.Hour,
	})
	ctx := context.Background()

	abandoned, err := st.Create(ctx, "u1", true)
	require.NoError(t, err)

	assert.Equal(t, 0, st.EvictExpired(time.Now()), "fresh session stays")
	assert.Equal(t, 1, st.EvictExpired(time.Now().Add(time.Minute)))
	_, err = st.Get(abandoned.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, st.Len())
}
