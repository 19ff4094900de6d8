package sequence

import (
	"strings"
	"time"
)

// Key returns the character recorded for a button: '0'-'9' for the first
// ten buttons, then 'A', 'B' and so on.
func Key(button int) byte {
	if button < 10 {
		return byte('0' + button)
	}
	return byte('A' + button - 10)
}

// Tracker remembers the most recent presses as a string of keys, so a typed
// code such as "34512" can be recognised at the end of the input.
// It is not safe for concurrent use.
type Tracker struct {
	size  int
	keys  []byte
	times []time.Time
}

// NewTracker keeps at most size presses.
func NewTracker(size int) *Tracker {
	return &Tracker{size: size}
}

// Add records a press of button at the given instant.
func (t *Tracker) Add(button int, at time.Time) {
	t.keys = append(t.keys, Key(button))
	t.times = append(t.times, at)
	if over := len(t.keys) - t.size; over > 0 {
		t.keys = t.keys[over:]
		t.times = t.times[over:]
	}
}

// String returns the remembered keys, oldest first.
func (t *Tracker) String() string {
	return string(t.keys)
}

// Last returns the last n keys, or all of them when fewer are remembered.
func (t *Tracker) Last(n int) string {
	if n <= 0 {
		return ""
	}
	if n > len(t.keys) {
		n = len(t.keys)
	}
	return string(t.keys[len(t.keys)-n:])
}

// EndsWith reports whether the remembered keys end with pattern.
func (t *Tracker) EndsWith(pattern string) bool {
	return strings.HasSuffix(string(t.keys), pattern)
}

// Span returns the time between the n-th most recent press and the latest
// one. ok is false when fewer than n presses are remembered.
func (t *Tracker) Span(n int) (span time.Duration, ok bool) {
	if n <= 0 || n > len(t.times) {
		return 0, false
	}
	return t.times[len(t.times)-1].Sub(t.times[len(t.times)-n]), true
}

// Reset forgets every press.
func (t *Tracker) Reset() {
	t.keys = t.keys[:0]
	t.times = t.times[:0]
}
