// internal/game/evaluator.go
//
// Guess evaluation: pure, deterministic scoring of a guess against a secret
// word using the classic two-pass algorithm, which handles repeated letters
// correctly (a naive per-character comparison does not).

package game

import "errors"

// ErrGuessLength reports a guess whose length differs from the secret's.
var ErrGuessLength = errors.New("guess length does not match word length")

// Evaluate scores guess against secret and returns one LetterStatus per
// position. It has no side effects; repeated calls with the same inputs
// yield identical results.
//
// Pass 1 marks exact matches as correct and counts the remaining secret
// letters. Pass 2 walks the non-correct positions left to right: a letter
// with remaining count is present (and consumes one count), anything else is
// absent. Consuming exact matches first, then left-to-right, is the
// tie-break that keeps results deterministic when the guess repeats a letter
// more often than the secret contains it (secret "speed", guess "erase":
// only one of the guess's e's is credited).
func Evaluate(secret, guess string) ([]LetterStatus, error) {
	secretRunes := []rune(secret)
	guessRunes := []rune(guess)
	if len(guessRunes) != len(secretRunes) {
		return nil, ErrGuessLength
	}

	n := len(secretRunes)
	res := make([]LetterStatus, n)

	// Remaining letter counts for the non-correct secret positions (a-z).
	var counts [26]int

	for i := 0; i < n; i++ {
		if guessRunes[i] == secretRunes[i] {
			res[i] = LetterCorrect
		} else if j := idx(secretRunes[i]); j >= 0 && j < 26 {
			counts[j]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == LetterCorrect {
			continue
		}
		j := idx(guessRunes[i])
		if j >= 0 && j < 26 && counts[j] > 0 {
			res[i] = LetterPresent
			counts[j]--
		} else {
			res[i] = LetterAbsent
		}
	}
	return res, nil
}

// idx maps a lowercase ASCII letter rune to 0..25.
func idx(r rune) int { return int(r - 'a') }

// allCorrect reports whether every status is LetterCorrect.
func allCorrect(statuses []LetterStatus) bool {
	for _, s := range statuses {
		if s != LetterCorrect {
			return false
		}
	}
	return true
}
