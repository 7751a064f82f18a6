package session

import (
	"errors"
	"fmt"
)

// State is the phase of the one logical capture shared by every display.
type State int

const (
	// Idle means no capture is running.
	Idle State = iota
	// Highlight follows the pointer and previews the window under it.
	Highlight
	// MouseFirstDown is a press that may become a click or a drag.
	MouseFirstDown
	// AppSelected is reserved; no event currently enters it.
	AppSelected
	Selecting
	// Waiting is reserved for handing a drag from one display to another.
	Waiting
	// Edit has a fixed selection that accepts markers.
	Edit
	// Done is entered once a commit has started.
	Done
)

// ErrInvalidTransition is returned when a requested state is not reachable
// from the current one.
var ErrInvalidTransition = errors.New("invalid capture state transition")

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Highlight:
		return "highlight"
	case MouseFirstDown:
		return "mouse-first-down"
	case AppSelected:
		return "app-selected"
	case Selecting:
		return "selecting"
	case Waiting:
		return "waiting"
	case Edit:
		return "edit"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var transitions = map[State][]State{
	Idle:           {Highlight},
	Highlight:      {MouseFirstDown, AppSelected},
	MouseFirstDown: {Selecting, Edit},
	Selecting:      {Waiting, Edit},
	Waiting:        {Edit},
}

// StateReader is the read-only view of the machine handed to sessions.
type StateReader interface {
	State() State
}

// Machine is the single capture state machine. It is owned by the
// coordinator and only touched from the event-loop goroutine.
type Machine struct {
	state State
}

// NewMachine returns a machine in Idle.
func NewMachine() *Machine { return &Machine{state: Idle} }

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Request moves to the given state if the transition is allowed. Requesting
// the current state is a no-op; Done is reachable from any active state.
func (m *Machine) Request(to State) error {
	if to == m.state {
		return nil
	}
	if to == Done && m.state != Idle {
		m.state = Done
		return nil
	}
	for _, next := range transitions[m.state] {
		if next == to {
			m.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, to)
}

// Reset returns the machine to Idle unconditionally.
func (m *Machine) Reset() { m.state = Idle }
