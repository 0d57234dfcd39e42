package state

// LatchedState is the per-tick state machine value held for each key.
// Unlike PhysicalState it distinguishes the first frame of a press or
// release from the steady state that follows it.
type LatchedState uint8

const (
	// StateReleased indicates the key is up and was up last tick.
	StateReleased LatchedState = iota
	// StateJustPressed indicates the key went down since the last tick.
	StateJustPressed
	// StateHeld indicates the key is down and was down last tick.
	StateHeld
	// StateJustReleased indicates the key went up since the last tick.
	StateJustReleased
)

// String returns a string representation of the latched state.
func (s LatchedState) String() string {
	switch s {
	case StateJustPressed:
		return "just-pressed"
	case StateHeld:
		return "held"
	case StateJustReleased:
		return "just-released"
	default:
		return "released"
	}
}

// Pressed returns true for the down-side states (StateJustPressed, StateHeld).
func (s LatchedState) Pressed() bool {
	return s == StateJustPressed || s == StateHeld
}

// Released returns true for the up-side states (StateJustReleased, StateReleased).
func (s LatchedState) Released() bool {
	return s == StateJustReleased || s == StateReleased
}
