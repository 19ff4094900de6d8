package animation

import (
	"math"
	"time"

	"github.com/smazurov/amplifier/internal/strip"
)

// Breathing pulses a base color between two brightness levels along a sine.
type Breathing struct {
	region   Region
	base     strip.Color
	min, max float64
	period   time.Duration
	clock    Clock
}

// NewBreathing creates a breathing effect. period is one full dim-bright-dim cycle.
func NewBreathing(region Region, base strip.Color, minLevel, maxLevel float64, period time.Duration, opts ...Option) *Breathing {
	return &Breathing{
		region: region,
		base:   base,
		min:    minLevel,
		max:    maxLevel,
		period: period,
		clock:  newClock(opts),
	}
}

func (b *Breathing) Name() string             { return "breathing" }
func (b *Breathing) Advance(dt time.Duration) { b.clock.Advance(dt) }

// Level returns the current brightness factor.
func (b *Breathing) Level() float64 {
	if b.period <= 0 {
		return b.max
	}
	phase := 2 * math.Pi * b.clock.Seconds() / b.period.Seconds()
	return b.min + (b.max-b.min)*(math.Sin(phase)+1)/2
}

func (b *Breathing) Render(c *strip.Chain) {
	r := b.region.Clip(c.Len())
	c.FillRange(r.Start, r.End, b.base.Scale(b.Level()))
}

// Rainbow cycles hues across a region.
type Rainbow struct {
	region Region
	speed  float64 // degrees per second
	spread float64 // degrees between neighbouring pixels
	clock  Clock
}

// NewRainbow creates a rainbow moving at speed degrees per second with spread
// degrees of hue between adjacent pixels.
func NewRainbow(region Region, speed, spread float64, opts ...Option) *Rainbow {
	return &Rainbow{region: region, speed: speed, spread: spread, clock: newClock(opts)}
}

func (r *Rainbow) Name() string             { return "rainbow" }
func (r *Rainbow) Advance(dt time.Duration) { r.clock.Advance(dt) }

func (r *Rainbow) Render(c *strip.Chain) {
	reg := r.region.Clip(c.Len())
	offset := r.speed * r.clock.Seconds()
	for i := reg.Start; i < reg.End; i++ {
		c.Set(i, hsv(float64(i-r.region.Start)*r.spread+offset, 1, 1))
	}
}

// Static fills a region with one color.
type Static struct {
	region Region
	color  strip.Color
}

// NewStatic creates a solid fill.
func NewStatic(region Region, color strip.Color) *Static {
	return &Static{region: region, color: color}
}

func (s *Static) Name() string          { return "static" }
func (s *Static) Advance(time.Duration) {}

func (s *Static) Render(c *strip.Chain) {
	r := s.region.Clip(c.Len())
	c.FillRange(r.Start, r.End, s.color)
}

// Scanner bounces a two-pixel head across a region, leaving a fading trail
// and drifting through the hue wheel. It only draws the head and trail, so it
// works as an overlay.
type Scanner struct {
	region Region
	speed  float64 // pixels per second
	drift  float64 // hue degrees per second
	hue    float64 // starting hue
	start  float64 // starting travel offset in pixels
	trail  int
	clock  Clock
}

// NewScanner creates a scanner. start offsets the head along its bounce path
// and hue sets the starting color.
func NewScanner(region Region, speed, drift float64, trail int, start, hue float64, opts ...Option) *Scanner {
	return &Scanner{
		region: region,
		speed:  speed,
		drift:  drift,
		hue:    hue,
		start:  start,
		trail:  trail,
		clock:  newClock(opts),
	}
}

func (s *Scanner) Name() string             { return "scanner" }
func (s *Scanner) Advance(dt time.Duration) { s.clock.Advance(dt) }

// Head returns the offset of the head's first pixel within the region and
// whether it is moving towards the region end.
func (s *Scanner) Head() (int, bool) {
	span := float64(s.region.Len() - 2)
	if span <= 0 {
		return 0, true
	}
	travel := math.Mod(s.start+s.speed*s.clock.Seconds(), 2*span)
	if travel <= span {
		return int(travel), true
	}
	return int(2*span - travel), false
}

func (s *Scanner) Render(c *strip.Chain) {
	n := s.region.Len()
	if n == 0 {
		return
	}
	head, forward := s.Head()
	color := hsv(s.hue+s.drift*s.clock.Seconds(), 1, 1)

	step := -1
	if !forward {
		step = 1
	}

	s.set(c, head, color)
	s.set(c, head+1, color)
	lead := head
	if !forward {
		lead = head + 1
	}
	for k := 1; k <= s.trail; k++ {
		fade := 1 - float64(k)/float64(s.trail+1)
		s.set(c, lead+step*k, color.Scale(fade*fade))
	}
}

func (s *Scanner) set(c *strip.Chain, offset int, color strip.Color) {
	if offset < 0 || offset >= s.region.Len() {
		return
	}
	if i := s.region.Start + offset; i < c.Len() {
		c.Set(i, color)
	}
}

// Beacon blinks a single pixel briefly once per beat.
type Beacon struct {
	pixel int
	color strip.Color
	beat  time.Duration
	on    time.Duration
	clock Clock
}

// NewBeacon creates a beacon at bpm beats per minute, lit for on at the start
// of every beat.
func NewBeacon(pixel int, color strip.Color, bpm float64, on time.Duration, opts ...Option) *Beacon {
	beat := time.Duration(float64(time.Minute) / bpm)
	return &Beacon{pixel: pixel, color: color, beat: beat, on: on, clock: newClock(opts)}
}

func (b *Beacon) Name() string             { return "beacon" }
func (b *Beacon) Advance(dt time.Duration) { b.clock.Advance(dt) }

// Lit reports whether the beacon is on.
func (b *Beacon) Lit() bool {
	if b.beat <= 0 {
		return false
	}
	return b.clock.Elapsed()%b.beat < b.on
}

func (b *Beacon) Render(c *strip.Chain) {
	if b.Lit() {
		c.Set(b.pixel, b.color)
	} else {
		c.Set(b.pixel, strip.Black)
	}
}

// Wave pushes bands of color outward from the center of a region.
type Wave struct {
	region  Region
	palette []strip.Color
	band    float64
	speed   float64 // pixels per second
	clock   Clock
}

// NewWave creates a wave of band-pixel-wide stripes cycling through palette.
func NewWave(region Region, palette []strip.Color, band int, speed float64, opts ...Option) *Wave {
	return &Wave{
		region:  region,
		palette: append([]strip.Color(nil), palette...),
		band:    float64(max(band, 1)),
		speed:   speed,
		clock:   newClock(opts),
	}
}

func (w *Wave) Name() string             { return "wave" }
func (w *Wave) Advance(dt time.Duration) { w.clock.Advance(dt) }

func (w *Wave) Render(c *strip.Chain) {
	if len(w.palette) == 0 {
		return
	}
	reg := w.region.Clip(c.Len())
	center := float64(w.region.Start+w.region.End-1) / 2
	pos := w.speed * w.clock.Seconds()
	n := len(w.palette)
	for i := reg.Start; i < reg.End; i++ {
		dist := math.Abs(float64(i) - center)
		band := int(math.Floor((dist - pos) / w.band))
		c.Set(i, w.palette[((band%n)+n)%n])
	}
}

// Delayed holds its region black for a delay and then runs the wrapped animation.
type Delayed struct {
	region Region
	delay  time.Duration
	inner  Animation
	clock  Clock
}

// NewDelayed wraps inner. region is the area kept black during the delay.
func NewDelayed(region Region, delay time.Duration, inner Animation) *Delayed {
	return &Delayed{region: region, delay: delay, inner: inner}
}

func (d *Delayed) Name() string { return "delayed " + d.inner.Name() }

func (d *Delayed) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	before := max(d.clock.Elapsed()-d.delay, 0)
	d.clock.Advance(dt)
	after := max(d.clock.Elapsed()-d.delay, 0)
	d.inner.Advance(after - before)
}

// Started reports whether the delay has passed.
func (d *Delayed) Started() bool {
	return d.clock.Elapsed() >= d.delay
}

func (d *Delayed) Render(c *strip.Chain) {
	if !d.Started() {
		r := d.region.Clip(c.Len())
		c.FillRange(r.Start, r.End, strip.Black)
		return
	}
	d.inner.Render(c)
}
