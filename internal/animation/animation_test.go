package animation

import (
	"testing"
	"time"

	"github.com/smazurov/amplifier/internal/strip"
)

func newChain(n int) *strip.Chain {
	return strip.NewChain(strip.NewMemory("test", n))
}

func snapshot(c *strip.Chain) []strip.Color {
	out := make([]strip.Color, c.Len())
	for i := range out {
		out[i] = c.Get(i)
	}
	return out
}

func TestAdvanceIsAdditive(t *testing.T) {
	const n = 40
	factories := map[string]func() Animation{
		"breathing": func() Animation {
			return NewBreathing(Span(0, n), IdleBlue, 0.1, 0.6, 6283*time.Millisecond)
		},
		"rainbow": func() Animation { return NewRainbow(Span(0, n), 100, 6.7) },
		"scanner": func() Animation {
			return NewScanner(Span(0, n), 40, 60, 6, 7, 200, WithInterval(50*time.Millisecond))
		},
		"beacon": func() Animation { return NewBeacon(10, strip.OrangeRed, 40, 90*time.Millisecond) },
		"wave":   func() Animation { return NewWave(Span(0, n), PartyPalette, 5, 66) },
		"delayed": func() Animation {
			return NewDelayed(Span(0, n), 300*time.Millisecond, NewRainbow(Span(0, n), 100, 6.7))
		},
	}

	splits := [][]time.Duration{
		{1234 * time.Millisecond},
		{234 * time.Millisecond, 1000 * time.Millisecond},
		{33 * time.Millisecond, 33 * time.Millisecond, 1168 * time.Millisecond},
	}

	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			var want []strip.Color
			for i, split := range splits {
				a := factory()
				for _, dt := range split {
					a.Advance(dt)
				}
				c := newChain(n)
				a.Render(c)
				got := snapshot(c)
				if i == 0 {
					want = got
					continue
				}
				for p := range got {
					if got[p] != want[p] {
						t.Fatalf("split %v: pixel %d = %v, want %v", split, p, got[p], want[p])
					}
				}
			}
		})
	}
}

func TestRenderStaysInRegion(t *testing.T) {
	region := Region{Start: 10, End: 20}
	effects := []Animation{
		NewBreathing(region, strip.White, 0.5, 1, time.Second),
		NewRainbow(region, 100, 10),
		NewStatic(region, strip.Red),
		NewScanner(region, 30, 0, 8, 0, 0),
		NewWave(region, PartyPalette, 2, 10),
		NewDelayed(region, time.Second, NewStatic(region, strip.Green)),
	}

	for _, a := range effects {
		t.Run(a.Name(), func(t *testing.T) {
			c := newChain(30)
			c.Fill(strip.Blue)
			a.Advance(1500 * time.Millisecond)
			a.Render(c)
			for i := range c.Len() {
				if region.Contains(i) {
					continue
				}
				if got := c.Get(i); got != strip.Blue {
					t.Errorf("pixel %d outside region changed to %v", i, got)
				}
			}
		})
	}
}

func TestRegionClippedToChain(t *testing.T) {
	c := newChain(5)
	NewStatic(Region{Start: 3, End: 50}, strip.Red).Render(c)
	if c.Get(4) != strip.Red || c.Get(2) != strip.Black {
		t.Errorf("clipped fill wrong: %v", snapshot(c))
	}
}

func TestClockInterval(t *testing.T) {
	c := newClock([]Option{WithInterval(50 * time.Millisecond)})
	c.Advance(30 * time.Millisecond)
	if c.Elapsed() != 0 {
		t.Errorf("Elapsed = %v, want 0", c.Elapsed())
	}
	c.Advance(30 * time.Millisecond)
	if c.Elapsed() != 50*time.Millisecond {
		t.Errorf("Elapsed = %v, want 50ms", c.Elapsed())
	}
	c.Advance(-time.Second)
	if c.Elapsed() != 50*time.Millisecond {
		t.Error("negative advance moved the clock")
	}
}

func TestBreathingLevels(t *testing.T) {
	b := NewBreathing(Span(0, 1), strip.White, 0.1, 0.6, 4*time.Second)
	if got := b.Level(); got < 0.349 || got > 0.351 {
		t.Errorf("level at t=0 = %v, want 0.35", got)
	}
	b.Advance(time.Second)
	if got := b.Level(); got < 0.599 {
		t.Errorf("level at quarter period = %v, want 0.6", got)
	}
	b.Advance(2 * time.Second)
	if got := b.Level(); got > 0.101 {
		t.Errorf("level at three quarters = %v, want 0.1", got)
	}
}

func TestBeaconBlink(t *testing.T) {
	b := NewBeacon(0, strip.OrangeRed, 40, 100*time.Millisecond)
	if !b.Lit() {
		t.Error("beacon dark at beat start")
	}
	b.Advance(200 * time.Millisecond)
	if b.Lit() {
		t.Error("beacon lit after on-window")
	}
	b.Advance(1300 * time.Millisecond)
	if !b.Lit() {
		t.Error("beacon dark at next beat (1.5s)")
	}
}

func TestScannerBounces(t *testing.T) {
	s := NewScanner(Span(0, 12), 10, 0, 0, 0, 0)

	s.Advance(500 * time.Millisecond)
	if head, fwd := s.Head(); head != 5 || !fwd {
		t.Errorf("head = %d fwd=%v, want 5 forward", head, fwd)
	}
	s.Advance(time.Second)
	if head, fwd := s.Head(); head != 5 || fwd {
		t.Errorf("head = %d fwd=%v, want 5 backward", head, fwd)
	}
}

func TestWaveMovesOutward(t *testing.T) {
	w := NewWave(Span(0, 21), []strip.Color{strip.Red, strip.Green}, 5, 5)
	c := newChain(21)
	w.Render(c)
	if c.Get(10) != strip.Red || c.Get(16) != strip.Green {
		t.Fatalf("initial bands: center=%v edge=%v", c.Get(10), c.Get(16))
	}

	w.Advance(time.Second)
	w.Render(c)
	if c.Get(10) != strip.Green {
		t.Errorf("center after one band = %v, want green", c.Get(10))
	}
	if c.Get(16) != strip.Red {
		t.Errorf("red band did not move outward: %v", c.Get(16))
	}
}

func TestDelayedHoldsBlack(t *testing.T) {
	d := NewDelayed(Span(0, 4), 500*time.Millisecond, NewStatic(Span(0, 4), strip.Red))
	c := newChain(4)
	c.Fill(strip.White)

	d.Advance(400 * time.Millisecond)
	d.Render(c)
	if c.Get(0) != strip.Black {
		t.Errorf("pixel during delay = %v, want black", c.Get(0))
	}
	d.Advance(100 * time.Millisecond)
	d.Render(c)
	if c.Get(0) != strip.Red {
		t.Errorf("pixel after delay = %v, want red", c.Get(0))
	}
}
