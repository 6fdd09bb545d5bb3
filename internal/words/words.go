// internal/words/words.go
//
// Word source for the game engine.
// Responsibilities:
//   - Load answer and allowed-guess lists from configured files or fall back
//     to the embedded defaults in the assets package.
//   - Maintain lookup sets for fast guess validation (answers ∪ extras).
//   - Pick secret words uniformly at random (crypto/rand).
//
// Word Lists:
//   - "answers": canonical secrets (exactly 5 lowercase letters).
//   - "allowed": valid guesses (always includes every answer).
//
// Loading behavior (Load):
//   1. If Options.AnswersFile and Options.AllowedFile are both set,
//      load answers from the first and allowed guesses from the second.
//   2. If only Options.AllowedFile is set,
//      load that file and use it for both answers and allowed guesses.
//   3. If neither is set, fall back to the embedded defaults.
//
// Guess legality is a policy choice (Options.DictOnly): length and alphabet
// are always enforced, dictionary membership only when the flag is on.
//
// Constraints:
//   - Words must be WordLength alphabetic letters (a-z).
//   - Lists are normalized to lowercase.
//   - An empty answers list is a configuration error, fatal at startup.

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/abswordle/server/assets"
)

// WordLength is the fixed secret/guess length.
const WordLength = 5

// ErrEmptyDictionary reports an answers list with no usable words.
// Surfaced at startup and never retried.
var ErrEmptyDictionary = errors.New("words: answers list is empty")

// Source supplies secret words and judges guess legality.
// The engine depends only on these two operations; selection policy is
// whatever the implementation chooses.
type Source interface {
	// PickSecret returns one secret word.
	PickSecret() (string, error)

	// IsValidGuess reports whether w may be played as a guess.
	IsValidGuess(w string) bool
}

// Options configures List loading.
type Options struct {
	AnswersFile string // optional path, one word per line
	AllowedFile string // optional path, one word per line
	DictOnly    bool   // require dictionary membership for guesses
}

// List is a fixed-dictionary Source with uniform random selection.
type List struct {
	answers    []string
	answersSet map[string]struct{}
	allowedSet map[string]struct{} // answers ∪ extras
	dictOnly   bool
}

// Load builds a List per the loading behavior described above.
func Load(opts Options) (*List, error) {
	var ansList, allowList []string

	switch {
	// Case 1: both lists provided
	case opts.AnswersFile != "" && opts.AllowedFile != "":
		var err error
		ansList, err = readWordFile(opts.AnswersFile)
		if err != nil {
			return nil, err
		}
		allowList, err = readWordFile(opts.AllowedFile)
		if err != nil {
			return nil, err
		}

	// Case 2: only allowed file provided, use it for both
	case opts.AnswersFile == "" && opts.AllowedFile != "":
		var err error
		allowList, err = readWordFile(opts.AllowedFile)
		if err != nil {
			return nil, err
		}
		ansList = allowList

	// Case 3: embedded defaults
	default:
		var err error
		ansList, err = assets.Answers()
		if err != nil {
			return nil, err
		}
		allowList, err = assets.Allowed()
		if err != nil {
			return nil, err
		}
	}

	ansList = keepValid(ansList)
	allowList = keepValid(allowList)
	if len(ansList) == 0 {
		return nil, ErrEmptyDictionary
	}

	l := &List{
		answers:    ansList,
		answersSet: toSet(ansList),
		dictOnly:   opts.DictOnly,
	}

	// Every answer is also a legal guess.
	l.allowedSet = toSet(ansList)
	for _, w := range allowList {
		l.allowedSet[w] = struct{}{}
	}
	return l, nil
}

// PickSecret returns a cryptographically random answer.
func (l *List) PickSecret() (string, error) {
	if len(l.answers) == 0 {
		return "", ErrEmptyDictionary
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(l.answers))))
	if err != nil {
		return "", fmt.Errorf("pick secret: %w", err)
	}
	return l.answers[nBig.Int64()], nil
}

// IsValidGuess enforces length and alphabet, plus dictionary membership when
// the DictOnly policy is on.
func (l *List) IsValidGuess(w string) bool {
	w = strings.ToLower(w)
	if len(w) != WordLength || !isAlpha(w) {
		return false
	}
	if !l.dictOnly {
		return true
	}
	_, ok := l.allowedSet[w]
	return ok
}

// IsAnswer reports whether w is in the canonical answer list.
func (l *List) IsAnswer(w string) bool {
	_, ok := l.answersSet[strings.ToLower(w)]
	return ok
}

// Counts returns the sizes of the loaded lists: (answers, allowed).
func (l *List) Counts() (answers int, allowed int) {
	return len(l.answers), len(l.allowedSet)
}

// readWordFile loads one word per line from a file, lowercased and trimmed.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read word file: %w", err)
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, strings.TrimSpace(strings.ToLower(sc.Text())))
	}
	return out, sc.Err()
}

// keepValid filters a list down to valid lowercase WordLength-letter words.
func keepValid(list []string) []string {
	var out []string
	for _, w := range list {
		if len(w) == WordLength && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
