// Package sequence detects repeated presses of a single button within a
// time window ("press button 7 three times within 1.5s").
package sequence

import (
	"errors"
	"fmt"
	"time"
)

// Rule fires when Button is pressed Count times with every press no later
// than Timeout after the first press of the streak.
type Rule struct {
	Name    string
	Button  int
	Count   int
	Timeout time.Duration
	// Target names the game state to force when the rule fires.
	Target string
	// ResetOnOther clears the streak when any other button is pressed.
	ResetOnOther bool
}

// Validate checks the rule against the number of available buttons.
func (r Rule) Validate(buttons int) error {
	var errs []error
	if r.Name == "" {
		errs = append(errs, errors.New("rule name is empty"))
	}
	if r.Button < 0 || r.Button >= buttons {
		errs = append(errs, fmt.Errorf("button %d out of range 0..%d", r.Button, buttons-1))
	}
	if r.Count < 1 {
		errs = append(errs, fmt.Errorf("count must be positive, got %d", r.Count))
	}
	if r.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", r.Timeout))
	}
	if r.Target == "" {
		errs = append(errs, errors.New("target state is empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("sequence %q: %w", r.Name, errors.Join(errs...))
	}
	return nil
}

type streak struct {
	count int
	start time.Time
}

// Detector tracks one streak per rule. It is not safe for concurrent use.
type Detector struct {
	rules   []Rule
	streaks []streak
}

// NewDetector creates a detector for rules.
func NewDetector(rules ...Rule) *Detector {
	return &Detector{
		rules:   append([]Rule(nil), rules...),
		streaks: make([]streak, len(rules)),
	}
}

// Rules returns the configured rules.
func (d *Detector) Rules() []Rule {
	return append([]Rule(nil), d.rules...)
}

// Feed records a press of button at the given instant and returns the rules
// that fired, in configuration order. A rule that fires starts over.
func (d *Detector) Feed(button int, at time.Time) []Rule {
	var fired []Rule
	for i, r := range d.rules {
		s := &d.streaks[i]
		if r.Button != button {
			if r.ResetOnOther {
				*s = streak{}
			}
			continue
		}

		if s.count == 0 || at.Sub(s.start) > r.Timeout {
			*s = streak{count: 1, start: at}
		} else {
			s.count++
		}

		if s.count >= r.Count {
			fired = append(fired, r)
			*s = streak{}
		}
	}
	return fired
}

// Progress returns the current streak length of the named rule.
func (d *Detector) Progress(name string) int {
	for i, r := range d.rules {
		if r.Name == name {
			return d.streaks[i].count
		}
	}
	return 0
}

// Reset clears every streak.
func (d *Detector) Reset() {
	clear(d.streaks)
}
