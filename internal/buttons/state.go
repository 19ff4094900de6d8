package buttons

import (
	"fmt"
	"strings"
)

// State is one edge-annotated snapshot of every button.
type State struct {
	Pressed []bool
	Rising  []int // buttons released last read and pressed now
	Falling []int // buttons pressed last read and released now
}

// IsPressed reports whether button id is held. Unknown ids are released.
func (s State) IsPressed(id int) bool {
	return id >= 0 && id < len(s.Pressed) && s.Pressed[id]
}

// AnyPressed reports whether at least one button is held.
func (s State) AnyPressed() bool {
	for _, p := range s.Pressed {
		if p {
			return true
		}
	}
	return false
}

// AllPressed reports whether every button is held.
func (s State) AllPressed() bool {
	if len(s.Pressed) == 0 {
		return false
	}
	for _, p := range s.Pressed {
		if !p {
			return false
		}
	}
	return true
}

// PressedCount returns the number of held buttons.
func (s State) PressedCount() int {
	n := 0
	for _, p := range s.Pressed {
		if p {
			n++
		}
	}
	return n
}

// PressedIDs returns the held buttons in ascending order.
func (s State) PressedIDs() []int {
	ids := make([]int, 0, len(s.Pressed))
	for i, p := range s.Pressed {
		if p {
			ids = append(ids, i)
		}
	}
	return ids
}

// Changed reports whether any edge occurred.
func (s State) Changed() bool {
	return len(s.Rising) > 0 || len(s.Falling) > 0
}

func (s State) String() string {
	var b strings.Builder
	for _, p := range s.Pressed {
		if p {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
	}
	return fmt.Sprintf("[%s] rising=%v falling=%v", b.String(), s.Rising, s.Falling)
}
