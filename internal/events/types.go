package events

// Event type constants for kelindar/event.
const (
	TypeStateChanged uint32 = iota + 1
	TypeSequenceMatched
	TypeButtonPressed
	TypeButtonsChanged
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// StateChangedEvent reasons.
const (
	ReasonStart     = "start"     // initial state when the loop starts
	ReasonState     = "state"     // the current state asked for the change
	ReasonSequence  = "sequence"  // a sequence rule forced the change
	ReasonConnected = "connected" // current state replayed to a new SSE client
)

// StateChangedEvent is published after the game controller swaps states.
// Used for the board status LED and the API transition history.
type StateChangedEvent struct {
	From      string `json:"from" example:"idle" doc:"Previous game state"`
	To        string `json:"to" example:"amplify" doc:"New game state"`
	Reason    string `json:"reason" example:"state" doc:"What caused the transition: start, state, sequence or connected"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Transition timestamp"`
}

// Type returns the event type identifier for StateChangedEvent.
func (e StateChangedEvent) Type() uint32 { return TypeStateChanged }

// GetState implements the GameStateEvent interface for LED manager.
func (e StateChangedEvent) GetState() string {
	return e.To
}

// SequenceMatchedEvent is published when a button sequence rule fires.
type SequenceMatchedEvent struct {
	Rule      string `json:"rule" example:"test-mode" doc:"Name of the sequence rule"`
	Target    string `json:"target" example:"test" doc:"State forced by the rule"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Match timestamp"`
}

// Type returns the event type identifier for SequenceMatchedEvent.
func (e SequenceMatchedEvent) Type() uint32 { return TypeSequenceMatched }

// ButtonPressedEvent is published for every rising edge.
type ButtonPressedEvent struct {
	Button    int    `json:"button" example:"3" doc:"Logical button id"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Press timestamp"`
}

// Type returns the event type identifier for ButtonPressedEvent.
func (e ButtonPressedEvent) Type() uint32 { return TypeButtonPressed }

// ButtonsChangedEvent is published when the set of held buttons changes.
type ButtonsChangedEvent struct {
	Pressed   []int  `json:"pressed" example:"[0,3]" doc:"Held buttons, ascending"`
	Total     int    `json:"total" example:"10" doc:"Number of configured buttons"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Change timestamp"`
}

// Type returns the event type identifier for ButtonsChangedEvent.
func (e ButtonsChangedEvent) Type() uint32 { return TypeButtonsChanged }
