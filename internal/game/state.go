// Package game implements the game modes and the fixed-rate loop that drives
// them from button input to LED output.
package game

import (
	"fmt"
	"time"

	"github.com/smazurov/amplifier/internal/animation"
	"github.com/smazurov/amplifier/internal/buttons"
	"github.com/smazurov/amplifier/internal/strip"
)

// StateID names a game state.
type StateID string

// Game states.
const (
	Idle    StateID = "idle"
	Amplify StateID = "amplify"
	Party   StateID = "party"
	Test    StateID = "test"
)

// ParseStateID validates a state name.
func ParseStateID(s string) (StateID, error) {
	switch id := StateID(s); id {
	case Idle, Amplify, Party, Test:
		return id, nil
	default:
		return "", fmt.Errorf("unknown game state %q", s)
	}
}

// State is one game mode. The controller calls HandleButtons, Update and
// Render once per frame in that order.
type State interface {
	ID() StateID
	// HandleButtons returns the next state, fully constructed, or nil to stay.
	HandleButtons(st buttons.State) State
	Update(dt time.Duration)
	// Render clears the chain and draws the state's layers in order.
	Render(c *strip.Chain)
	Enter()
	Exit()
}

// Env is the configuration shared by every state.
type Env struct {
	ButtonCount   int
	LEDCount      int
	LEDsPerButton int
	PartyEnabled  bool
	PartyDuration time.Duration
	// IgnoreHeld masks buttons held right now until they are released.
	IgnoreHeld func()
}

// NewState constructs the state named by id.
func NewState(id StateID, env *Env) (State, error) {
	switch id {
	case Idle:
		return NewIdle(env), nil
	case Amplify:
		return NewAmplify(env, nil), nil
	case Party:
		return NewParty(env), nil
	case Test:
		return NewTest(env), nil
	default:
		return nil, fmt.Errorf("unknown game state %q", id)
	}
}

// layers renders animations bottom to top.
type layers []animation.Animation

func (l layers) update(dt time.Duration) {
	for _, a := range l {
		a.Advance(dt)
	}
}

func (l layers) render(c *strip.Chain) {
	c.Fill(strip.Black)
	for _, a := range l {
		a.Render(c)
	}
}

// base supplies no-op lifecycle hooks.
type base struct{}

func (base) Enter() {}
func (base) Exit()  {}
