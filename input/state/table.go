package state

import (
	"time"
)

// Table tracks the latched state of every key reported to it. The key
// type K is caller-supplied; any comparable type works (rune, string,
// integer scan codes, or a domain-specific enum).
//
// The zero value is not usable; create tables with NewTable.
type Table[K comparable] struct {
	latched   map[K]LatchedState
	pressedAt map[K]time.Time

	lastPressed    K
	hasLastPressed bool

	now func() time.Time
}

// NewTable creates an empty state table using the system monotonic clock.
func NewTable[K comparable]() *Table[K] {
	return NewTableClock[K](nil)
}

// NewTableClock creates an empty state table using the given clock.
// A nil clock falls back to time.Now. Injecting a clock makes
// duration queries deterministic in tests.
func NewTableClock[K comparable](now func() time.Time) *Table[K] {
	if now == nil {
		now = time.Now
	}
	return &Table[K]{
		latched:   make(map[K]LatchedState),
		pressedAt: make(map[K]time.Time),
		now:       now,
	}
}

// Now returns the current reading of the table's clock.
func (t *Table[K]) Now() time.Time {
	return t.now()
}

// Set reports a physical transition for key, stamped with the current
// clock reading. See SetAt.
func (t *Table[K]) Set(key K, physical PhysicalState) {
	t.SetAt(key, physical, t.now())
}

// SetAt reports a physical transition for key observed at the given
// instant. The transition is edge-triggered: reporting Down for a key
// that is already down (or Up for a key already up) is a no-op, so
// key-repeat from the producer never re-fires the just-pressed edge.
//
// An Up-to-Down transition latches StateJustPressed and records the
// press start instant; Down-to-Up latches StateJustReleased and clears
// the press start.
func (t *Table[K]) SetAt(key K, physical PhysicalState, at time.Time) {
	current := t.latched[key]
	switch physical {
	case Down:
		if current.Pressed() {
			return
		}
		t.latched[key] = StateJustPressed
		t.pressedAt[key] = at
		t.lastPressed = key
		t.hasLastPressed = true
	case Up:
		if current.Released() {
			return
		}
		t.latched[key] = StateJustReleased
		delete(t.pressedAt, key)
	}
}

// AdvanceTick collapses the edge states for every key: StateJustPressed
// becomes StateHeld and StateJustReleased becomes StateReleased. The
// host loop must call it exactly once per logical frame, after draining
// that frame's events, for IsJustPressed and IsJustReleased to be
// frame-accurate.
func (t *Table[K]) AdvanceTick() {
	for key, s := range t.latched {
		switch s {
		case StateJustPressed:
			t.latched[key] = StateHeld
		case StateJustReleased:
			delete(t.latched, key)
		}
	}
}

// State returns the latched state for key. Unknown keys are StateReleased.
func (t *Table[K]) State(key K) LatchedState {
	return t.latched[key]
}

// IsPressed returns true if key is currently down (just pressed or held).
func (t *Table[K]) IsPressed(key K) bool {
	return t.latched[key].Pressed()
}

// IsReleased returns true if key is currently up (just released or released).
func (t *Table[K]) IsReleased(key K) bool {
	return t.latched[key].Released()
}

// IsJustPressed returns true only during the tick in which the key's
// Up-to-Down transition was observed.
func (t *Table[K]) IsJustPressed(key K) bool {
	return t.latched[key] == StateJustPressed
}

// IsJustReleased returns true only during the tick in which the key's
// Down-to-Up transition was observed.
func (t *Table[K]) IsJustReleased(key K) bool {
	return t.latched[key] == StateJustReleased
}

// TimePressed returns how long key has been held, measured from the
// press start to the table's clock. The second return is false if the
// key is not currently pressed.
func (t *Table[K]) TimePressed(key K) (time.Duration, bool) {
	start, ok := t.pressedAt[key]
	if !ok {
		return 0, false
	}
	return t.now().Sub(start), true
}

// ActiveCombo returns true if every key in combo is currently pressed.
// An empty combo is vacuously true.
func (t *Table[K]) ActiveCombo(combo []K) bool {
	for _, key := range combo {
		if !t.IsPressed(key) {
			return false
		}
	}
	return true
}

// AnyPressed returns true if at least one key is currently pressed.
func (t *Table[K]) AnyPressed() bool {
	for _, s := range t.latched {
		if s.Pressed() {
			return true
		}
	}
	return false
}

// KeysPressed returns all currently pressed keys. Order is unspecified.
func (t *Table[K]) KeysPressed() []K {
	keys := make([]K, 0, len(t.latched))
	for key, s := range t.latched {
		if s.Pressed() {
			keys = append(keys, key)
		}
	}
	return keys
}

// LastPressed returns the key of the most recent just-pressed transition
// observed since the table was created or last reset. The second return
// is false if no press has been observed yet.
func (t *Table[K]) LastPressed() (K, bool) {
	return t.lastPressed, t.hasLastPressed
}

// Reset forces every key to StateReleased and clears all press start
// instants and the last-pressed marker. Event history held elsewhere is
// not affected.
func (t *Table[K]) Reset() {
	clear(t.latched)
	clear(t.pressedAt)
	var zero K
	t.lastPressed = zero
	t.hasLastPressed = false
}
