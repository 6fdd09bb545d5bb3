package words

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWordFile(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data := ""
	for _, l := range lines {
		data += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadFromFilesFiltersInvalidEntries(t *testing.T) {
	answers := writeWordFile(t, "answers.txt",
		"crane",
		"SLATE",   // lowercased on read
		"ab",      // too short
		"toolong", // too long
		"sp3ed",   // non-alpha
		"",        // blank
	)
	allowed := writeWordFile(t, "allowed.txt", "erase", "llama")

	l, err := Load(Options{AnswersFile: answers, AllowedFile: allowed, DictOnly: true})
	require.NoError(t, err)

	nAns, nAll := l.Counts()
	assert.Equal(t, 2, nAns)
	assert.Equal(t, 4, nAll, "allowed set is answers plus extras")

	assert.True(t, l.IsAnswer("crane"))
	assert.True(t, l.IsAnswer("SLATE"))
	assert.False(t, l.IsAnswer("erase"))

	assert.True(t, l.IsValidGuess("erase"))
	assert.True(t, l.IsValidGuess("crane"), "answers are always legal guesses")
	assert.False(t, l.IsValidGuess("toast"), "not in either list")
}

func TestLoadAllowedOnlyServesBothLists(t *testing.T) {
	allowed := writeWordFile(t, "allowed.txt", "crane", "erase")

	l, err := Load(Options{AllowedFile: allowed, DictOnly: true})
	require.NoError(t, err)

	nAns, nAll := l.Counts()
	assert.Equal(t, 2, nAns)
	assert.Equal(t, 2, nAll)
	assert.True(t, l.IsAnswer("erase"))
}

func TestLoadEmptyAnswers(t *testing.T) {
	answers := writeWordFile(t, "answers.txt", "ab", "x")
	allowed := writeWordFile(t, "allowed.txt", "erase")

	_, err := Load(Options{AnswersFile: answers, AllowedFile: allowed})
	assert.ErrorIs(t, err, ErrEmptyDictionary)
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	l, err := Load(Options{DictOnly: true})
	require.NoError(t, err)

	nAns, nAll := l.Counts()
	assert.Greater(t, nAns, 0)
	assert.GreaterOrEqual(t, nAll, nAns)

	secret, err := l.PickSecret()
	require.NoError(t, err)
	assert.Len(t, secret, WordLength)
	assert.True(t, l.IsAnswer(secret))
}

func TestIsValidGuessShapeChecks(t *testing.T) {
	answers := writeWordFile(t, "answers.txt", "crane")

	for _, dictOnly := range []bool{true, false} {
		l, err := Load(Options{AnswersFile: answers, AllowedFile: answers, DictOnly: dictOnly})
		require.NoError(t, err)

		// Shape is enforced regardless of dictionary policy.
		assert.False(t, l.IsValidGuess("cran"))
		assert.False(t, l.IsValidGuess("cranes"))
		assert.False(t, l.IsValidGuess("cr4ne"))
		assert.True(t, l.IsValidGuess("CRANE"))
	}
}

func TestDictOnlyOffAcceptsAnyShape(t *testing.T) {
	answers := writeWordFile(t, "answers.txt", "crane")

	l, err := Load(Options{AnswersFile: answers, AllowedFile: answers, DictOnly: false})
	require.NoError(t, err)

	assert.True(t, l.IsValidGuess("zzzzz"), "membership not required when policy is off")

	l2, err := Load(Options{AnswersFile: answers, AllowedFile: answers, DictOnly: true})
	require.NoError(t, err)
	assert.False(t, l2.IsValidGuess("zzzzz"))
}

func TestDailyDeterministicPerDay(t *testing.T) {
	answers := writeWordFile(t, "answers.txt", "crane", "slate", "speed", "abbey", "index")

	l, err := Load(Options{AnswersFile: answers, AllowedFile: answers, DictOnly: true})
	require.NoError(t, err)

	day1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	day1Later := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 0, 1, 0, 0, time.UTC)

	d := NewDaily(l, "pepper")

	d.now = func() time.Time { return day1 }
	first, err := d.PickSecret()
	require.NoError(t, err)
	assert.True(t, l.IsAnswer(first))

	d.now = func() time.Time { return day1Later }
	again, err := d.PickSecret()
	require.NoError(t, err)
	assert.Equal(t, first, again, "same UTC day yields the same word")

	// Different salts decouple deployments sharing an answer list.
	other := NewDaily(l, "salt2")
	other.now = func() time.Time { return day1 }
	idxA := wordIndex(day1, "pepper", len(l.answers))
	idxB := wordIndex(day1, "salt2", len(l.answers))
	if idxA != idxB {
		w, err := other.PickSecret()
		require.NoError(t, err)
		assert.NotEqual(t, first, w)
	}

	d.now = func() time.Time { return day2 }
	next, err := d.PickSecret()
	require.NoError(t, err)
	assert.True(t, l.IsAnswer(next))
}

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 01:00 on March 2nd local time is still March 1st in UTC.
	local := time.Date(2024, 3, 2, 1, 0, 0, 0, loc)
	assert.Equal(t, "2024-03-01", DateKey(local))
}
