// internal/store/store.go
//
// Session store: owns the set of live game sessions, keyed by session id.
// Responsibilities:
//   - Create sessions (asks the word source for a secret).
//   - Route guesses to the owning session; the session's own mutex
//     serializes concurrent guesses per id while the store map stays under a
//     short RWMutex, so one session's lock never blocks another's progress.
//   - Notify the stats recorder exactly once per terminal transition.
//   - Evict finished sessions after a grace period and idle sessions after a
//     timeout. Eviction acquires the session lock before destroying it, and
//     a destroyed session never resurrects: Get reports ErrSessionNotFound.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/abswordle/server/internal/game"
	"github.com/abswordle/server/internal/words"
)

// ErrSessionNotFound reports an unknown or already-evicted session id.
var ErrSessionNotFound = errors.New("session not found")

// Recorder receives terminal game outcomes. Satisfied by stats.Ledger.
type Recorder interface {
	RecordWin(ctx context.Context, userID string) error
	RecordLoss(ctx context.Context, userID string) error
}

// Config tunes the eviction policy.
type Config struct {
	IdleTimeout   time.Duration // evict PROCEED sessions untouched this long
	FinishedGrace time.Duration // keep terminal sessions readable this long
}

// DefaultConfig mirrors the cleanup cadence of the reference deployment:
// abandoned games go after an hour, finished ones shortly after the result
// has been delivered.
func DefaultConfig() Config {
	return Config{
		IdleTimeout:   time.Hour,
		FinishedGrace: 5 * time.Minute,
	}
}

// Store owns all live sessions. Construct with New; zero value is not usable.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session

	source   words.Source
	recorder Recorder
	cfg      Config
}

// New builds a Store over a word source and an outcome recorder.
// recorder may be nil when no stats are kept (tests, tooling).
func New(src words.Source, rec Recorder, cfg Config) *Store {
	return &Store{
		sessions: make(map[string]*game.Session),
		source:   src,
		recorder: rec,
		cfg:      cfg,
	}
}

// Create starts a new session for ownerID and returns it.
// ownerIsUser marks owners whose outcomes count toward stats; anonymous
// owners play the same game but are skipped by the recorder.
func (st *Store) Create(ctx context.Context, ownerID string, ownerIsUser bool) (*game.Session, error) {
	secret, err := st.source.PickSecret()
	if err != nil {
		return nil, err
	}
	sess := game.NewSession(uuid.NewString(), ownerID, ownerIsUser, secret)

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	log.Debug().Str("sessionId", sess.ID).Msg("session created")
	return sess, nil
}

// Get returns the live session for id, or ErrSessionNotFound.
func (st *Store) Get(id string) (*game.Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if s, ok := st.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrSessionNotFound
}

// Submit routes a guess to its session and, when this call produced the
// terminal transition, records the outcome. Only the transitioning call
// observes a terminal Result with no prior error, so the increment happens
// at most once per session.
func (st *Store) Submit(ctx context.Context, id, guess string) (game.Result, error) {
	sess, err := st.Get(id)
	if err != nil {
		return game.Result{}, err
	}
	res, err := sess.Submit(guess, st.source)
	if err != nil {
		return game.Result{}, err
	}
	if res.Status != game.StatusProceed {
		st.recordOutcome(ctx, sess, res.Status)
	}
	return res, nil
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) recordOutcome(ctx context.Context, sess *game.Session, status game.Status) {
	if st.recorder == nil || !sess.OwnerIsUser {
		// outcome for an anonymous owner, nothing to update
		return
	}
	var err error
	if status == game.StatusWin {
		err = st.recorder.RecordWin(ctx, sess.OwnerID)
	} else {
		err = st.recorder.RecordLoss(ctx, sess.OwnerID)
	}
	if err != nil {
		log.Warn().Err(err).Str("user", sess.OwnerID).Str("sessionId", sess.ID).Msg("record outcome")
	}
}

// StartJanitor runs periodic eviction until ctx is cancelled.
func (st *Store) StartJanitor(ctx context.Context, every time.Duration) {
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				if n := st.EvictExpired(now); n > 0 {
					log.Info().Int("evicted", n).Msg("session janitor sweep")
				}
			}
		}
	}()
}

// EvictExpired destroys every session the policy allows at time now and
// returns how many were removed. Session.Evictable takes the session lock,
// so a guess in flight always completes before its session can go away.
func (st *Store) EvictExpired(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	evicted := 0
	for id, s := range st.sessions {
		if s.Evictable(now, st.cfg.IdleTimeout, st.cfg.FinishedGrace) {
			delete(st.sessions, id)
			evicted++
		}
	}
	return evicted
}
