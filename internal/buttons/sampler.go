// Package buttons samples digital inputs (GPIO pins, keyboard digit keys or
// both) and turns consecutive samples into edge-annotated snapshots.
package buttons

import (
	"fmt"
	"strings"
)

// Sampler yields the raw instantaneous state of every logical button.
type Sampler interface {
	// Setup acquires the input resource. Call once before the first Sample.
	// A missing resource is not an error: the sampler degrades to reporting
	// every button as released and logs a warning.
	Setup() error
	// Sample returns one pressed flag per logical button. It never blocks.
	Sample() []bool
	// Count returns the number of logical buttons.
	Count() int
	// Close releases the input resource and restores any terminal mode.
	Close() error
}

// Pull is the internal resistor configuration of an input pin.
type Pull string

// Pull modes.
const (
	PullOff  Pull = "off"
	PullUp   Pull = "up"
	PullDown Pull = "down"
)

// ParsePull parses a pull mode name. The empty string means PullOff.
func ParsePull(s string) (Pull, error) {
	switch strings.ToLower(s) {
	case "", "off", "none", "float":
		return PullOff, nil
	case "up":
		return PullUp, nil
	case "down":
		return PullDown, nil
	default:
		return "", fmt.Errorf("unknown pull mode %q", s)
	}
}

// Kind selects a sampler implementation.
type Kind string

// Sampler kinds.
const (
	KindGPIO         Kind = "gpio"
	KindKeyboard     Kind = "keyboard"
	KindKeyboardLine Kind = "keyboard-line"
	KindHybrid       Kind = "hybrid"
)

// UsesKeyboard reports whether the kind reads digit keys.
func (k Kind) UsesKeyboard() bool {
	return k == KindKeyboard || k == KindKeyboardLine || k == KindHybrid
}

// UsesGPIO reports whether the kind reads pins.
func (k Kind) UsesGPIO() bool {
	return k == KindGPIO || k == KindHybrid
}

// MaxKeyboardButtons is the number of digit keys.
const MaxKeyboardButtons = 10

// Config describes the button hardware.
type Config struct {
	Sampler     string `toml:"sampler"`
	Driver      string `toml:"gpio_driver"`
	Pins        []int  `toml:"pins"`
	Count       int    `toml:"count"`
	Pull        string `toml:"pull"`
	ActiveLevel string `toml:"active_level"`
}

// ButtonCount returns the number of logical buttons: one per pin, or Count
// when no pins are mapped (keyboard-only setups).
func (c Config) ButtonCount() int {
	if len(c.Pins) > 0 {
		return len(c.Pins)
	}
	return c.Count
}

// ActiveHigh reports whether a high pin level means pressed.
func (c Config) ActiveHigh() bool {
	return !strings.EqualFold(c.ActiveLevel, "low")
}
