package history

import "iter"

// Replay is a finite, restartable forward iterator over a snapshot of
// the event log. It reflects the buffer's contents at the moment
// Buffer.Snapshot was called, not a live view.
type Replay[K comparable] struct {
	events []Event[K]
	pos    int
}

// Next returns the next event in chronological order. The second
// return is false once the snapshot is exhausted.
func (r *Replay[K]) Next() (Event[K], bool) {
	if r.pos >= len(r.events) {
		var zero Event[K]
		return zero, false
	}
	ev := r.events[r.pos]
	r.pos++
	return ev, true
}

// Reset rewinds the replay to the beginning of the snapshot.
func (r *Replay[K]) Reset() {
	r.pos = 0
}

// Len returns the total number of events in the snapshot, independent
// of the current position.
func (r *Replay[K]) Len() int {
	return len(r.events)
}

// Remaining returns the number of events not yet consumed.
func (r *Replay[K]) Remaining() int {
	return len(r.events) - r.pos
}

// All returns a range-over-func sequence over the whole snapshot,
// starting from the beginning regardless of the current position. It
// does not advance the replay's own cursor.
func (r *Replay[K]) All() iter.Seq[Event[K]] {
	return func(yield func(Event[K]) bool) {
		for _, ev := range r.events {
			if !yield(ev) {
				return
			}
		}
	}
}
