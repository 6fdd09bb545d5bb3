// internal/words/daily.go
//
// Deterministic selection strategy: every session started on the same UTC day
// gets the same secret, derived from HMAC(salt, YYYY-MM-DD) mod answers.
// Guess validation is delegated to the wrapped List unchanged.

package words

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// Daily wraps a List and replaces its selection policy with a
// date-keyed deterministic pick.
type Daily struct {
	*List
	salt string
	now  func() time.Time
}

// NewDaily builds a Daily source over l. An empty salt still works but makes
// the day's word guessable by anyone with the answer list.
func NewDaily(l *List, salt string) *Daily {
	return &Daily{List: l, salt: salt, now: time.Now}
}

// PickSecret returns the answer for today's date key.
func (d *Daily) PickSecret() (string, error) {
	if len(d.answers) == 0 {
		return "", ErrEmptyDictionary
	}
	return d.answers[wordIndex(d.now(), d.salt, len(d.answers))], nil
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// wordIndex maps a date to an index via HMAC(salt, date key).
func wordIndex(date time.Time, salt string, answersLen int) int {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}
