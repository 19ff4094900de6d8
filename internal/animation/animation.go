// Package animation provides time-based LED effects. Every effect derives its
// phase from the total time it has been advanced, so rendering is independent
// of how that time was split into frames.
package animation

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/smazurov/amplifier/internal/strip"
)

// Animation is a time-based effect bound to a region of a chain.
type Animation interface {
	Name() string
	// Advance moves the animation forward by dt. Negative values are ignored.
	Advance(dt time.Duration)
	// Render writes the current frame into the animation's region.
	Render(c *strip.Chain)
}

// Region is a half-open range [Start, End) of global chain indices.
type Region struct {
	Start, End int
}

// Span returns the region covering n pixels from start.
func Span(start, n int) Region {
	return Region{Start: start, End: start + n}
}

// Len returns the number of pixels in the region.
func (r Region) Len() int {
	return max(r.End-r.Start, 0)
}

// Clip limits the region to [0, n).
func (r Region) Clip(n int) Region {
	return Region{Start: max(r.Start, 0), End: min(r.End, n)}
}

// Contains reports whether i lies in the region.
func (r Region) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Option configures an animation.
type Option func(*Clock)

// WithInterval quantises the animation's phase to whole steps of d, which
// gives effects a fixed cadence independent of the frame rate.
func WithInterval(d time.Duration) Option {
	return func(c *Clock) {
		c.Interval = d
	}
}

// Clock accumulates elapsed time.
type Clock struct {
	Interval time.Duration
	total    time.Duration
}

func newClock(opts []Option) Clock {
	var c Clock
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Advance adds dt.
func (c *Clock) Advance(dt time.Duration) {
	if dt > 0 {
		c.total += dt
	}
}

// Elapsed returns the accumulated time, rounded down to the interval.
func (c *Clock) Elapsed() time.Duration {
	if c.Interval <= 0 {
		return c.total
	}
	return c.total - c.total%c.Interval
}

// Seconds returns Elapsed in seconds.
func (c *Clock) Seconds() float64 {
	return c.Elapsed().Seconds()
}

// hsv converts a hue in degrees (any value) with saturation and value in
// [0, 1] to a pixel color.
func hsv(h, s, v float64) strip.Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsv(h, s, v).RGB255()
	return strip.RGB(r, g, b)
}
