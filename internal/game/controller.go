package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/smazurov/amplifier/internal/buttons"
	"github.com/smazurov/amplifier/internal/events"
	"github.com/smazurov/amplifier/internal/metrics"
	"github.com/smazurov/amplifier/internal/sequence"
	"github.com/smazurov/amplifier/internal/strip"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 30

// sustainedOverrun is the number of consecutive late frames after which the
// controller logs a warning.
const sustainedOverrun = 30

// Transition reasons published on StateChangedEvent.
const (
	ReasonStart    = events.ReasonStart
	ReasonState    = events.ReasonState
	ReasonSequence = events.ReasonSequence
)

// Status is a point-in-time snapshot of the controller.
type Status struct {
	State          StateID   `json:"state" example:"idle" doc:"Current game state"`
	Since          time.Time `json:"since" doc:"When the current state was entered"`
	Frames         uint64    `json:"frames" example:"1800" doc:"Frames processed since start"`
	Overruns       uint64    `json:"overruns" example:"2" doc:"Frames whose work exceeded the frame period"`
	FPS            int       `json:"fps" example:"30" doc:"Configured frame rate"`
	LastSequence   string    `json:"last_sequence,omitempty" example:"test-mode" doc:"Last sequence rule that fired"`
	LastSequenceAt time.Time `json:"last_sequence_at,omitzero" doc:"When the last sequence fired"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithBus publishes transitions, sequence matches and presses on bus.
func WithBus(bus *events.Bus) Option {
	return func(c *Controller) {
		c.bus = bus
	}
}

// WithHeartbeat calls fn once per frame. Used for the supervisor watchdog.
func WithHeartbeat(fn func()) Option {
	return func(c *Controller) {
		c.heartbeat = fn
	}
}

// WithClock replaces the wall clock and the frame sleep.
func WithClock(now func() time.Time, sleep func(context.Context, time.Duration) error) Option {
	return func(c *Controller) {
		c.now = now
		c.sleep = sleep
	}
}

// Controller owns the game loop: it reads buttons, feeds the sequence
// detector, applies transitions, advances and renders the current state and
// flushes the strips once per frame.
type Controller struct {
	reader    *buttons.Reader
	detector  *sequence.Detector
	chain     *strip.Chain
	env       *Env
	fps       int
	frame     time.Duration
	bus       *events.Bus
	heartbeat func()
	now       func() time.Time
	sleep     func(context.Context, time.Duration) error
	logger    *slog.Logger

	current       State
	overrunStreak int
	failing       map[string]bool

	mu     sync.Mutex
	status Status
}

// NewController creates a controller starting in Idle. env.IgnoreHeld is
// bound to the reader.
func NewController(reader *buttons.Reader, detector *sequence.Detector, chain *strip.Chain, env Env, fps int, logger *slog.Logger, opts ...Option) *Controller {
	if fps <= 0 {
		fps = DefaultFPS
	}
	env.IgnoreHeld = reader.IgnorePressedUntilReleased

	c := &Controller{
		reader:   reader,
		detector: detector,
		chain:    chain,
		env:      &env,
		fps:      fps,
		frame:    time.Second / time.Duration(fps),
		now:      time.Now,
		sleep:    sleepContext,
		logger:   logger,
		failing:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.current = NewIdle(c.env)
	c.current.Enter()
	c.status = Status{State: Idle, Since: c.now(), FPS: fps}
	return c
}

// Current returns the active state.
func (c *Controller) Current() State {
	return c.current
}

// Status returns a snapshot safe to call from any goroutine.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// FrameDuration returns the frame period.
func (c *Controller) FrameDuration() time.Duration {
	return c.frame
}

// Step runs one tick at instant now with dt elapsed since the previous tick.
// It returns the flush error, if any, after logging and counting it.
func (c *Controller) Step(now time.Time, dt time.Duration) error {
	st := c.reader.Read()

	var override State
	var fired sequence.Rule
	for _, id := range st.Rising {
		metrics.IncButtonPress(id)
		c.publish(events.ButtonPressedEvent{Button: id, Timestamp: timestamp(now)})

		for _, rule := range c.detector.Feed(id, now) {
			c.onSequence(rule, now)
			if override != nil {
				continue
			}
			next, err := NewState(StateID(rule.Target), c.env)
			if err != nil {
				c.logger.Error("Sequence targets unknown state", "rule", rule.Name, "error", err)
				continue
			}
			override, fired = next, rule
		}
	}

	if st.Changed() {
		c.publish(events.ButtonsChangedEvent{Pressed: st.PressedIDs(), Total: len(st.Pressed), Timestamp: timestamp(now)})
	}

	switch {
	case override != nil:
		c.transition(override, ReasonSequence, now, "rule", fired.Name)
	default:
		if next := c.current.HandleButtons(st); next != nil {
			c.transition(next, ReasonState, now)
		}
	}

	c.current.Update(dt)
	c.current.Render(c.chain)
	return c.flush()
}

func (c *Controller) onSequence(rule sequence.Rule, now time.Time) {
	c.logger.Info("Button sequence matched",
		"rule", rule.Name,
		"button", rule.Button,
		"count", rule.Count,
		"target", rule.Target)
	metrics.IncSequenceMatch(rule.Name)
	c.publish(events.SequenceMatchedEvent{Rule: rule.Name, Target: rule.Target, Timestamp: timestamp(now)})

	c.mu.Lock()
	c.status.LastSequence = rule.Name
	c.status.LastSequenceAt = now
	c.mu.Unlock()
}

// transition swaps to next, which must already be constructed.
func (c *Controller) transition(next State, reason string, now time.Time, attrs ...any) {
	prev := c.current
	prev.Exit()
	next.Enter()
	c.current = next

	from, to := string(prev.ID()), string(next.ID())
	c.logger.Info("Game state changed",
		append([]any{"from", from, "to", to, "reason", reason}, attrs...)...)
	metrics.RecordTransition(from, to)
	c.publish(events.StateChangedEvent{From: from, To: to, Reason: reason, Timestamp: timestamp(now)})

	c.mu.Lock()
	c.status.State = next.ID()
	c.status.Since = now
	c.mu.Unlock()
}

func (c *Controller) flush() error {
	err := c.chain.Show()

	failed := make(map[string]bool)
	for _, fe := range strip.FlushErrors(err) {
		failed[fe.Strip] = true
		metrics.IncFlushError(fe.Strip)
		if !c.failing[fe.Strip] {
			c.logger.Error("Strip flush failed", "strip", fe.Strip, "error", fe.Err)
		}
	}
	for name := range c.failing {
		if !failed[name] {
			c.logger.Info("Strip flush recovered", "strip", name)
		}
	}
	c.failing = failed
	return err
}

// Run loops at the configured frame rate until ctx is cancelled. Each frame
// sleeps for whatever remains of the frame period after the work; a frame
// that overruns is followed immediately by the next one, without catching up.
// On exit the chain is blanked.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("Game loop started", "fps", c.fps, "frame", c.frame, "state", string(c.current.ID()))
	metrics.SetState("", string(c.current.ID()))
	c.publish(events.StateChangedEvent{To: string(c.current.ID()), Reason: ReasonStart, Timestamp: timestamp(c.now())})

	last := c.now()
	for ctx.Err() == nil {
		start := c.now()
		dt := start.Sub(last)
		last = start

		_ = c.Step(start, dt)

		work := c.now().Sub(start)
		overrun := work > c.frame
		c.recordFrame(work, overrun)
		if c.heartbeat != nil {
			c.heartbeat()
		}
		if overrun {
			continue
		}
		if err := c.sleep(ctx, c.frame-work); err != nil {
			break
		}
	}

	c.current.Exit()
	if err := c.chain.Blank(); err != nil {
		c.logger.Warn("Failed to blank strips on exit", "error", err)
	}
	c.logger.Info("Game loop stopped", "frames", c.Status().Frames)
	return nil
}

func (c *Controller) recordFrame(work time.Duration, overrun bool) {
	metrics.ObserveFrame(work, overrun)

	c.mu.Lock()
	c.status.Frames++
	if overrun {
		c.status.Overruns++
	}
	c.mu.Unlock()

	if !overrun {
		if c.overrunStreak >= sustainedOverrun {
			c.logger.Info("Frame rate recovered", "late_frames", c.overrunStreak)
		}
		c.overrunStreak = 0
		return
	}

	c.overrunStreak++
	if c.overrunStreak == sustainedOverrun {
		c.logger.Warn("Frames consistently exceed budget",
			"consecutive", c.overrunStreak,
			"last_work", work,
			"budget", c.frame)
	}
}

func (c *Controller) publish(ev events.Event) {
	if c.bus != nil {
		c.bus.Publish(ev)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// String describes the controller for logs.
func (c *Controller) String() string {
	return fmt.Sprintf("game controller (%d buttons, %d LEDs, %d fps)", c.env.ButtonCount, c.env.LEDCount, c.fps)
}
