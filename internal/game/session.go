// internal/game/session.go
//
// One player's in-progress or finished game: a strict state machine wrapping
// a secret word and the sequence of evaluated attempts.
//
// State transitions: proceed -> win | lose, at most once. A terminal session
// accepts no further guesses. Rejected guesses (bad length, not in the
// dictionary) are not recorded and do not consume an attempt.
//
// All mutation goes through Submit, which serializes concurrent submissions
// for the same session under the session's own mutex. Different sessions
// never share a lock.

package game

import (
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	// MaxAttempts is the number of non-winning guesses before a loss.
	MaxAttempts = 6
)

var (
	// ErrSessionFinished reports a guess against a terminal session.
	ErrSessionFinished = errors.New("game is already finished")

	// ErrInvalidGuess reports a guess rejected by the word source.
	ErrInvalidGuess = errors.New("word is not in the dictionary")
)

// Validator judges guess legality. Satisfied by words.Source.
type Validator interface {
	IsValidGuess(w string) bool
}

// Session holds the state of a single game.
// The secret word is fixed at creation and revealed to callers only when the
// session is lost.
type Session struct {
	ID          string
	OwnerID     string // identity allowed to play this session
	OwnerIsUser bool   // false for anonymous owners; stats skip those

	mu         sync.Mutex
	secret     string
	attempts   []Attempt
	status     Status
	lastActive time.Time
	finishedAt time.Time
}

// NewSession constructs a fresh session in StatusProceed.
func NewSession(id, ownerID string, ownerIsUser bool, secret string) *Session {
	return &Session{
		ID:          id,
		OwnerID:     ownerID,
		OwnerIsUser: ownerIsUser,
		secret:      strings.ToLower(secret),
		status:      StatusProceed,
		lastActive:  time.Now(),
	}
}

// Submit validates and scores a guess, mutating the session state.
// The returned Result reflects the attempt and the status update as one
// atomic observation.
//
// Validation rules:
//   - Session must still be in StatusProceed.
//   - Guess must match the secret's length.
//   - Guess must pass the Validator (nil disables the check).
//
// A winning guess transitions to StatusWin; exhausting MaxAttempts without a
// win transitions to StatusLose and reveals the secret in the Result.
func (s *Session) Submit(guess string, valid Validator) (Result, error) {
	guess = strings.ToLower(strings.TrimSpace(guess))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()
	if s.status != StatusProceed {
		return Result{}, ErrSessionFinished
	}
	if len([]rune(guess)) != len([]rune(s.secret)) {
		return Result{}, ErrGuessLength
	}
	if valid != nil && !valid.IsValidGuess(guess) {
		return Result{}, ErrInvalidGuess
	}

	statuses, err := Evaluate(s.secret, guess)
	if err != nil {
		return Result{}, err
	}
	att := Attempt{Guess: guess, Statuses: statuses}
	s.attempts = append(s.attempts, att)

	if allCorrect(statuses) {
		s.status = StatusWin
		s.finishedAt = time.Now()
	} else if len(s.attempts) >= MaxAttempts {
		s.status = StatusLose
		s.finishedAt = time.Now()
	}

	res := Result{Attempt: att, Status: s.status, CurrentTry: len(s.attempts)}
	if s.status == StatusLose {
		res.Word = s.secret
	}
	return res, nil
}

// View is a read-only snapshot of a session, safe to hand to callers.
// Word is populated only for a lost session.
type View struct {
	ID         string    `json:"id"`
	Attempts   []Attempt `json:"attempts"`
	CurrentTry int       `json:"currentTry"`
	Status     Status    `json:"gameStatus"`
	Word       string    `json:"word,omitempty"`
}

// Snapshot returns a consistent copy of the session's visible state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:         s.ID,
		Attempts:   append([]Attempt(nil), s.attempts...),
		CurrentTry: len(s.attempts),
		Status:     s.status,
	}
	if s.status == StatusLose {
		v.Word = s.secret
	}
	return v
}

// CurrentStatus returns the session's lifecycle state.
func (s *Session) CurrentStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Evictable reports whether the session may be destroyed at time now: a
// terminal session past its grace period, or any session idle longer than
// idleTimeout. Takes the session lock, so an in-flight Submit always
// completes before the eviction decision is made.
func (s *Session) Evictable(now time.Time, idleTimeout, finishedGrace time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusProceed {
		return now.Sub(s.finishedAt) > finishedGrace
	}
	return now.Sub(s.lastActive) > idleTimeout
}
