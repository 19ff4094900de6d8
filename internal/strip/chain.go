package strip

import (
	"errors"
	"fmt"
)

// FlushError records a failed Show on one strip of a chain.
type FlushError struct {
	Strip string
	Err   error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("flush strip %q: %v", e.Strip, e.Err)
}

func (e *FlushError) Unwrap() error {
	return e.Err
}

// FlushErrors extracts every *FlushError from an error returned by Chain.Show.
func FlushErrors(err error) []*FlushError {
	if err == nil {
		return nil
	}
	var out []*FlushError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, FlushErrors(e)...)
		}
		return out
	}
	var fe *FlushError
	if errors.As(err, &fe) {
		out = append(out, fe)
	}
	return out
}

// Chain addresses several strips as one LED index space. Index 0 is the first
// pixel of the first strip; the second strip starts right after the last pixel
// of the first one, and so on.
type Chain struct {
	strips  []Strip
	offsets []int
	total   int
}

// NewChain concatenates strips in the given order.
func NewChain(strips ...Strip) *Chain {
	c := &Chain{
		strips:  strips,
		offsets: make([]int, len(strips)),
	}
	for i, s := range strips {
		c.offsets[i] = c.total
		c.total += s.Len()
	}
	return c
}

// Len returns the total number of pixels across all strips.
func (c *Chain) Len() int {
	return c.total
}

// Strips returns the strips in chain order.
func (c *Chain) Strips() []Strip {
	return c.strips
}

func (c *Chain) locate(i int) (Strip, int, bool) {
	if i < 0 || i >= c.total {
		return nil, 0, false
	}
	for n := len(c.strips) - 1; n >= 0; n-- {
		if i >= c.offsets[n] {
			return c.strips[n], i - c.offsets[n], true
		}
	}
	return nil, 0, false
}

// Set stores a color at global index i.
func (c *Chain) Set(i int, col Color) {
	if s, local, ok := c.locate(i); ok {
		s.Set(local, col)
	}
}

// Get returns the color at global index i.
func (c *Chain) Get(i int) Color {
	if s, local, ok := c.locate(i); ok {
		return s.Get(local)
	}
	return Black
}

// Fill stores col on every pixel of every strip.
func (c *Chain) Fill(col Color) {
	for _, s := range c.strips {
		s.Fill(col)
	}
}

// FillRange stores col on the half-open global range [start, end).
func (c *Chain) FillRange(start, end int, col Color) {
	if start < 0 {
		start = 0
	}
	if end > c.total {
		end = c.total
	}
	for i := start; i < end; i++ {
		c.Set(i, col)
	}
}

// Show flushes every strip. A failing strip does not stop the others; the
// returned error joins one *FlushError per failed strip.
func (c *Chain) Show() error {
	var errs []error
	for _, s := range c.strips {
		if err := s.Show(); err != nil {
			errs = append(errs, &FlushError{Strip: s.Name(), Err: err})
		}
	}
	return errors.Join(errs...)
}

// Blank turns every pixel off and flushes.
func (c *Chain) Blank() error {
	c.Fill(Black)
	return c.Show()
}

// Close releases every strip device.
func (c *Chain) Close() error {
	var errs []error
	for _, s := range c.strips {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close strip %q: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
