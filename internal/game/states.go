package game

import (
	"math/rand/v2"
	"time"

	"github.com/smazurov/amplifier/internal/animation"
	"github.com/smazurov/amplifier/internal/buttons"
	"github.com/smazurov/amplifier/internal/strip"
)

const (
	idleMinLevel    = 0.1
	idleMaxLevel    = 0.6
	scannerDelay    = 2 * time.Second
	scannerSpeed    = 40 // pixels per second
	scannerDrift    = 60 // hue degrees per second
	scannerTrail    = 12
	scannerStep     = 50 * time.Millisecond
	rainbowSpeed    = 100 // hue degrees per second
	rainbowSpread   = 6.7 // hue degrees per pixel
	beaconBPM       = 40
	beaconOn        = 90 * time.Millisecond
	partyBandWidth  = 25
	partyWaveSpeed  = 66                      // pixels per second
	breathingPeriod = 6283 * time.Millisecond // about 2π seconds, one radian per second
)

type idle struct {
	base
	env    *Env
	layers layers
}

// NewIdle creates the attract mode: dim blue breathing under a bouncing
// rainbow scanner that appears after a short delay.
func NewIdle(env *Env) State {
	whole := animation.Span(0, env.LEDCount)
	scanner := animation.NewScanner(whole, scannerSpeed, scannerDrift, scannerTrail,
		rand.Float64()*float64(max(env.LEDCount, 1)), rand.Float64()*360,
		animation.WithInterval(scannerStep))

	return &idle{
		env: env,
		layers: layers{
			animation.NewBreathing(whole, animation.IdleBlue, idleMinLevel, idleMaxLevel, breathingPeriod),
			animation.NewDelayed(animation.Region{}, scannerDelay, scanner),
		},
	}
}

func (s *idle) ID() StateID { return Idle }

func (s *idle) HandleButtons(st buttons.State) State {
	if len(st.Rising) > 0 {
		return NewAmplify(s.env, st.Pressed)
	}
	return nil
}

func (s *idle) Update(dt time.Duration) { s.layers.update(dt) }
func (s *idle) Render(c *strip.Chain)   { s.layers.render(c) }

type amplify struct {
	base
	env      *Env
	pressed  []bool
	rainbows []animation.Animation
	beacons  []animation.Animation
}

// NewAmplify creates the play mode. Each held button lights a rainbow on its
// segment; released buttons show a slow blinking marker at their segment
// center.
func NewAmplify(env *Env, pressed []bool) State {
	s := &amplify{
		env:      env,
		pressed:  make([]bool, env.ButtonCount),
		rainbows: make([]animation.Animation, env.ButtonCount),
		beacons:  make([]animation.Animation, env.ButtonCount),
	}
	copy(s.pressed, pressed)

	per := env.LEDsPerButton
	for i := range env.ButtonCount {
		segment := animation.Span(i*per, per)
		s.rainbows[i] = animation.NewRainbow(segment, rainbowSpeed, rainbowSpread)
		s.beacons[i] = animation.NewBeacon(segment.Start+per/2, strip.OrangeRed, beaconBPM, beaconOn)
	}
	return s
}

func (s *amplify) ID() StateID { return Amplify }

// Pressed returns the buttons the state currently shows as held.
func (s *amplify) Pressed() []bool {
	return append([]bool(nil), s.pressed...)
}

func (s *amplify) HandleButtons(st buttons.State) State {
	copy(s.pressed, st.Pressed)
	if !st.AnyPressed() {
		return NewIdle(s.env)
	}
	if s.env.PartyEnabled && st.AllPressed() {
		return NewParty(s.env)
	}
	return nil
}

func (s *amplify) Update(dt time.Duration) {
	for i := range s.rainbows {
		s.rainbows[i].Advance(dt)
		s.beacons[i].Advance(dt)
	}
}

func (s *amplify) Render(c *strip.Chain) {
	c.Fill(strip.Black)
	for i, held := range s.pressed {
		if held {
			s.rainbows[i].Render(c)
		} else {
			s.beacons[i].Render(c)
		}
	}
}

type party struct {
	base
	env     *Env
	layers  layers
	elapsed time.Duration
}

// NewParty creates the reward mode reached by holding every button: colour
// bands pushed outward from the middle of the chain.
func NewParty(env *Env) State {
	return &party{
		env: env,
		layers: layers{
			animation.NewWave(animation.Span(0, env.LEDCount), animation.PartyPalette, partyBandWidth, partyWaveSpeed),
		},
	}
}

func (s *party) ID() StateID { return Party }

// Enter masks the buttons that triggered the party so releasing and
// pressing them again is needed to leave.
func (s *party) Enter() {
	if s.env.IgnoreHeld != nil {
		s.env.IgnoreHeld()
	}
}

func (s *party) HandleButtons(st buttons.State) State {
	if len(st.Rising) > 0 {
		return NewIdle(s.env)
	}
	if s.env.PartyDuration > 0 && s.elapsed >= s.env.PartyDuration {
		return NewIdle(s.env)
	}
	return nil
}

func (s *party) Update(dt time.Duration) {
	if dt > 0 {
		s.elapsed += dt
	}
	s.layers.update(dt)
}

func (s *party) Render(c *strip.Chain) { s.layers.render(c) }

type test struct {
	base
	env    *Env
	layers layers
}

// NewTest creates the wiring check: first half of the chain red, second half green.
func NewTest(env *Env) State {
	half := env.LEDCount / 2
	return &test{
		env: env,
		layers: layers{
			animation.NewStatic(animation.Region{Start: 0, End: half}, strip.Red),
			animation.NewStatic(animation.Region{Start: half, End: env.LEDCount}, strip.Green),
		},
	}
}

func (s *test) ID() StateID { return Test }

func (s *test) HandleButtons(st buttons.State) State {
	if len(st.Rising) > 0 {
		return NewIdle(s.env)
	}
	return nil
}

func (s *test) Update(dt time.Duration) { s.layers.update(dt) }
func (s *test) Render(c *strip.Chain)   { s.layers.render(c) }
