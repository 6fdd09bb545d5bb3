package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluatePerfectGuess(t *testing.T) {
	statuses, err := Evaluate("index", "index")
	require.NoError(t, err)
	assert.Equal(t, []LetterStatus{
		LetterCorrect, LetterCorrect, LetterCorrect, LetterCorrect, LetterCorrect,
	}, statuses)
}

func TestEvaluateLengthMismatch(t *testing.T) {
	_, err := Evaluate("crane", "cranes")
	assert.ErrorIs(t, err, ErrGuessLength)

	_, err = Evaluate("crane", "cat")
	assert.ErrorIs(t, err, ErrGuessLength)
}

func TestEvaluateDeterministic(t *testing.T) {
	first, err := Evaluate("speed", "erase")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Evaluate("speed", "erase")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// The guess holds two e's and so does the secret; both are credited, but the
// duplicate accounting never credits a letter more often than the secret
// contains it.
func TestEvaluateSpeedErase(t *testing.T) {
	statuses, err := Evaluate("speed", "erase")
	require.NoError(t, err)
	assert.Equal(t, []LetterStatus{
		LetterPresent, // e: two e's in speed, first credit
		LetterAbsent,  // r
		LetterAbsent,  // a
		LetterPresent, // s
		LetterPresent, // e: second credit, count now exhausted
	}, statuses)
}

func TestEvaluateDuplicateHeavyGuess(t *testing.T) {
	// secret "bobby" vs guess "abbey": one b is an exact match, one is
	// misplaced, the third b in the secret stays unconsumed.
	statuses, err := Evaluate("bobby", "abbey")
	require.NoError(t, err)
	assert.Equal(t, []LetterStatus{
		LetterAbsent,
		LetterPresent,
		LetterCorrect,
		LetterAbsent,
		LetterCorrect,
	}, statuses)
}

func TestEvaluateExcessLettersGoAbsent(t *testing.T) {
	// guess repeats b more often than the secret contains it; the excess
	// occurrence must come back absent.
	statuses, err := Evaluate("abbey", "ababb")
	require.NoError(t, err)
	assert.Equal(t, []LetterStatus{
		LetterCorrect,
		LetterCorrect,
		LetterAbsent,
		LetterPresent,
		LetterAbsent,
	}, statuses)
}

func TestEvaluateAllowLlama(t *testing.T) {
	statuses, err := Evaluate("allow", "llama")
	require.NoError(t, err)
	assert.Equal(t, []LetterStatus{
		LetterPresent, // l: one l left after the exact match
		LetterCorrect, // l
		LetterPresent, // a
		LetterAbsent,  // m
		LetterAbsent,  // a: secret's single a already consumed
	}, statuses)
}
