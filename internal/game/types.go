// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - LetterStatus: per-letter result of an evaluated guess.
//   - Status: session lifecycle state (proceed/win/lose).
//   - Attempt: one evaluated guess recorded against a session.
//   - Result: what a submitted guess returns to the caller.

package game

// LetterStatus is the evaluation result for a single letter in a guess.
// Possible values:
//   - "correct": same letter, same position.
//   - "present": letter occurs in the secret word at a different position,
//     subject to duplicate-count accounting.
//   - "absent":  letter does not occur, or all its occurrences are already
//     accounted for.
type LetterStatus string

const (
	LetterCorrect LetterStatus = "correct"
	LetterPresent LetterStatus = "present"
	LetterAbsent  LetterStatus = "absent"
)

// Status is a session's lifecycle state. A session starts in StatusProceed
// and transitions at most once, to StatusWin or StatusLose.
type Status string

const (
	StatusProceed Status = "proceed"
	StatusWin     Status = "win"
	StatusLose    Status = "lose"
)

// Attempt is one evaluated guess. Immutable once recorded; the order of
// attempts within a session is chronological.
type Attempt struct {
	Guess    string         `json:"guess"`
	Statuses []LetterStatus `json:"letterStatuses"`
}

// Result is returned by Session.Submit atomically with the state change: the
// attempt just recorded, the session's updated status, and the attempt count.
// Word carries the secret only when the session was just lost.
type Result struct {
	Attempt    Attempt `json:"attempt"`
	Status     Status  `json:"gameStatus"`
	CurrentTry int     `json:"currentTry"`
	Word       string  `json:"word,omitempty"`
}
