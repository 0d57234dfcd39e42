package history

import (
	"fmt"
	"time"

	"github.com/CVALENDB/orbit-input-core/input/state"
)

// Event is a single recorded input transition: which key, whether it
// went down or up, and when. Events are immutable values; the buffer
// owns its storage and hands out views, never ownership.
type Event[K comparable] struct {
	// Key identifies the input control.
	Key K

	// State is the raw physical transition reported by the producer.
	State state.PhysicalState

	// Timestamp is when the transition was observed. Producers should
	// use a monotonic clock so history spans survive wall-clock jumps.
	Timestamp time.Time
}

// IsDown returns true if this event records a press.
func (e Event[K]) IsDown() bool {
	return e.State == state.Down
}

// IsUp returns true if this event records a release.
func (e Event[K]) IsUp() bool {
	return e.State == state.Up
}

// GoString implements fmt.GoStringer for debugging.
func (e Event[K]) GoString() string {
	return fmt.Sprintf("Event{Key: %v, State: %s, Timestamp: %s}",
		e.Key, e.State, e.Timestamp.Format(time.RFC3339Nano))
}
